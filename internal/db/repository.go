package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tuusuario/wm-trace-snapshots/internal/core"
)

type SQLiteRepository struct {
	db *DB
}

func NewRepository(db *DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Unmarshal helper
func unmarshalJSON(data string, v interface{}) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}

// Marshal helper
func marshalJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// storedRects is the persisted form of the eight normalized rects.
// They are always present after construction, so the column is a plain
// JSON object with no null handling.
type storedRects struct {
	Frame              core.Rect `json:"frame"`
	ContainingFrame    core.Rect `json:"containing_frame"`
	ParentFrame        core.Rect `json:"parent_frame"`
	ContentFrame       core.Rect `json:"content_frame"`
	ContentInsets      core.Rect `json:"content_insets"`
	SurfaceInsets      core.Rect `json:"surface_insets"`
	GivenContentInsets core.Rect `json:"given_content_insets"`
	Crop               core.Rect `json:"crop"`
}

func (r *SQLiteRepository) CreateTrace(ctx context.Context, t *core.Trace) error {
	tagsJSON, err := marshalJSON(t.Tags)
	if err != nil {
		return err
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO traces (id, name, description, created_at, collector, git_branch, git_repo, git_dirty, git_head_hash, tags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.ExecContext(ctx, query, t.ID, t.Name, t.Description, t.CreatedAt,
			t.Collector, t.GitBranch, t.GitRepo, t.GitDirty, t.GitHeadHash, tagsJSON)
		return err
	})
}

func (r *SQLiteRepository) GetTraceByID(ctx context.Context, id string) (*core.Trace, error) {
	query := `SELECT id, name, description, created_at, collector, git_branch, git_repo, git_dirty, git_head_hash, tags FROM traces WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	t := &core.Trace{}
	var tagsRaw string
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.Collector,
		&t.GitBranch, &t.GitRepo, &t.GitDirty, &t.GitHeadHash, &tagsRaw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSON(tagsRaw, &t.Tags); err != nil {
		return nil, err
	}

	return t, nil
}

func (r *SQLiteRepository) ListTraces(ctx context.Context, filter core.TraceFilter) ([]core.Trace, error) {
	query := `SELECT id, name, description, created_at, collector, git_branch, git_repo, git_dirty, git_head_hash, tags FROM traces WHERE 1=1`
	var args []interface{}

	if filter.Repo != "" {
		query += " AND git_repo LIKE ?"
		args = append(args, "%"+filter.Repo+"%")
	}
	if filter.Branch != "" {
		query += " AND git_branch = ?"
		args = append(args, filter.Branch)
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var traces []core.Trace
	for rows.Next() {
		t := core.Trace{}
		var tagsRaw string
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.Collector,
			&t.GitBranch, &t.GitRepo, &t.GitDirty, &t.GitHeadHash, &tagsRaw); err != nil {
			return nil, err
		}
		if err := unmarshalJSON(tagsRaw, &t.Tags); err != nil {
			return nil, err
		}
		traces = append(traces, t)
	}

	return traces, rows.Err()
}

func (r *SQLiteRepository) DeleteTrace(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM traces WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) SaveEntries(ctx context.Context, traceID string, entries []core.Entry) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		entryStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO entries (trace_id, seq, elapsed_nanos) VALUES (?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer entryStmt.Close()

		windowStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO window_states (entry_id, seq, stable_id, token, title, visible,
				attr_type, attr_flags, attr_alpha, display_id, stack_id, layer,
				surface_shown, window_type, requested_width, requested_height,
				surface_position, rects, is_app_window)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer windowStmt.Close()

		for seq, e := range entries {
			res, err := entryStmt.ExecContext(ctx, traceID, seq, e.ElapsedNanos)
			if err != nil {
				return err
			}
			entryID, err := res.LastInsertId()
			if err != nil {
				return err
			}

			for wseq, w := range e.Windows {
				rectsJSON, err := marshalJSON(storedRects{
					Frame:              w.Frame(),
					ContainingFrame:    w.ContainingFrame(),
					ParentFrame:        w.ParentFrame(),
					ContentFrame:       w.ContentFrame(),
					ContentInsets:      w.ContentInsets(),
					SurfaceInsets:      w.SurfaceInsets(),
					GivenContentInsets: w.GivenContentInsets(),
					Crop:               w.Crop(),
				})
				if err != nil {
					return err
				}

				// NULL keeps "no surface" distinct from a zero rect.
				var surfacePos sql.NullString
				if sp := w.SurfacePosition(); sp != nil {
					s, err := marshalJSON(sp)
					if err != nil {
						return err
					}
					surfacePos = sql.NullString{String: s, Valid: true}
				}

				attrs := w.Attributes()
				_, err = windowStmt.ExecContext(ctx, entryID, wseq,
					w.StableID(), w.Token(), w.Title(), w.Container().IsVisible(),
					attrs.Type, attrs.Flags, attrs.Alpha,
					w.DisplayID(), w.StackID(), w.Layer(),
					w.IsSurfaceShown(), w.WindowType(),
					w.RequestedSize().Width, w.RequestedSize().Height,
					surfacePos, rectsJSON, w.IsAppWindow())
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) GetEntries(ctx context.Context, traceID string) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, elapsed_nanos FROM entries WHERE trace_id = ? ORDER BY seq
	`, traceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type entryRow struct {
		id    int64
		entry core.Entry
	}
	var entryRows []entryRow
	for rows.Next() {
		var er entryRow
		if err := rows.Scan(&er.id, &er.entry.ElapsedNanos); err != nil {
			return nil, err
		}
		entryRows = append(entryRows, er)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entryRows {
		windows, err := r.getEntryWindows(ctx, entryRows[i].id)
		if err != nil {
			return nil, err
		}
		entryRows[i].entry.Windows = windows
	}

	entries := make([]core.Entry, len(entryRows))
	for i, er := range entryRows {
		entries[i] = er.entry
	}
	return entries, nil
}

func (r *SQLiteRepository) getEntryWindows(ctx context.Context, entryID int64) ([]*core.WindowState, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT stable_id, token, title, visible, attr_type, attr_flags, attr_alpha,
			display_id, stack_id, layer, surface_shown, window_type,
			requested_width, requested_height, surface_position, rects, is_app_window
		FROM window_states WHERE entry_id = ? ORDER BY seq
	`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []*core.WindowState
	for rows.Next() {
		var (
			cfg        core.WindowStateConfig
			alpha      float64
			surfacePos sql.NullString
			rectsRaw   string
		)
		if err := rows.Scan(&cfg.Container.StableID, &cfg.Container.Token, &cfg.Container.Title,
			&cfg.Container.Visible, &cfg.Attributes.Type, &cfg.Attributes.Flags, &alpha,
			&cfg.DisplayID, &cfg.StackID, &cfg.Layer, &cfg.IsSurfaceShown, &cfg.WindowType,
			&cfg.RequestedSize.Width, &cfg.RequestedSize.Height,
			&surfacePos, &rectsRaw, &cfg.IsAppWindow); err != nil {
			return nil, err
		}
		cfg.Attributes.Alpha = float32(alpha)

		var stored storedRects
		if err := unmarshalJSON(rectsRaw, &stored); err != nil {
			return nil, fmt.Errorf("corrupt rects column: %w", err)
		}
		cfg.Rects = core.WindowRects{
			Frame:              &stored.Frame,
			ContainingFrame:    &stored.ContainingFrame,
			ParentFrame:        &stored.ParentFrame,
			ContentFrame:       &stored.ContentFrame,
			ContentInsets:      &stored.ContentInsets,
			SurfaceInsets:      &stored.SurfaceInsets,
			GivenContentInsets: &stored.GivenContentInsets,
			Crop:               &stored.Crop,
		}

		if surfacePos.Valid {
			var sp core.Rect
			if err := unmarshalJSON(surfacePos.String, &sp); err != nil {
				return nil, fmt.Errorf("corrupt surface_position column: %w", err)
			}
			cfg.SurfacePosition = &sp
		}

		// Reconstruction goes back through the normalizing constructor;
		// titles in the store are already stripped, and stripping is
		// idempotent.
		w, err := core.NewWindowState(cfg)
		if err != nil {
			return nil, fmt.Errorf("stored window state invalid: %w", err)
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}
