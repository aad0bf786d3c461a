package trace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tuusuario/wm-trace-snapshots/internal/core"
	"github.com/tuusuario/wm-trace-snapshots/internal/git"
	"github.com/tuusuario/wm-trace-snapshots/internal/logging"
	"github.com/tuusuario/wm-trace-snapshots/internal/sanitize"
)

// Manager drives the capture pipeline: sample the collector, attach
// context, sanitize, persist. It never mutates the shell it observes.
type Manager struct {
	repo      core.Repository
	collector core.Collector
	sanitizer *sanitize.Sanitizer
	log       *logging.Logger
}

func NewManager(repo core.Repository, collector core.Collector, log *logging.Logger) (*Manager, error) {
	if log == nil {
		log = logging.Nop()
	}
	sanitizer, err := sanitize.NewSanitizer(sanitize.DefaultOptions())
	if err != nil {
		return nil, err
	}
	return &Manager{
		repo:      repo,
		collector: collector,
		sanitizer: sanitizer,
		log:       log,
	}, nil
}

// SetSanitizer replaces the default sanitizer configuration.
func (m *Manager) SetSanitizer(s *sanitize.Sanitizer) {
	m.sanitizer = s
}

type CaptureOptions struct {
	Name        string
	Description string
	Tags        []string
	// Samples is the number of hierarchy snapshots to take; defaults
	// to 1. Interval spaces them out.
	Samples  int
	Interval time.Duration
	Sanitize bool
	// GitPath points at the checkout of the system under test;
	// defaults to the working directory.
	GitPath string
}

// Capture records a trace: Samples snapshots of the window hierarchy,
// Interval apart, persisted with git context and the capture metadata.
func (m *Manager) Capture(ctx context.Context, opts CaptureOptions) (*core.Trace, error) {
	samples := opts.Samples
	if samples <= 0 {
		samples = 1
	}

	t := &core.Trace{
		ID:          uuid.New().String(),
		Name:        opts.Name,
		Description: opts.Description,
		Tags:        opts.Tags,
		CreatedAt:   time.Now(),
		Collector:   m.collector.Name(),
	}

	// 1. Sample the hierarchy
	start := time.Now()
	for i := 0; i < samples; i++ {
		if i > 0 && opts.Interval > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.Interval):
			}
		}

		entry, err := m.collector.CaptureEntry(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to capture entry %d: %w", i, err)
		}
		if entry.ElapsedNanos == 0 {
			entry.ElapsedNanos = time.Since(start).Nanoseconds()
		}
		t.Entries = append(t.Entries, *entry)
	}

	// 2. Capture git context of the system under test
	detector := git.NewDetector()
	gitCtx, err := detector.DetectContext(ctx, opts.GitPath)
	if err == nil && gitCtx != nil {
		t.GitBranch = gitCtx.Branch
		t.GitRepo = gitCtx.RepoPath
		t.GitDirty = gitCtx.IsDirty
		t.GitHeadHash = gitCtx.HeadHash
	}

	// 3. Sanitize titles before anything touches disk
	if opts.Sanitize {
		if err := m.sanitizer.SanitizeEntries(t.Entries); err != nil {
			return nil, fmt.Errorf("failed to sanitize trace: %w", err)
		}
	}

	// 4. Persist
	if err := m.repo.CreateTrace(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save trace metadata: %w", err)
	}
	if err := m.repo.SaveEntries(ctx, t.ID, t.Entries); err != nil {
		return nil, fmt.Errorf("failed to save trace entries: %w", err)
	}

	m.log.Info("trace captured",
		zap.String("id", t.ID),
		zap.String("name", t.Name),
		zap.Int("entries", len(t.Entries)),
		zap.String("collector", t.Collector))

	return t, nil
}

// Get loads a trace with its entries.
func (m *Manager) Get(ctx context.Context, id string) (*core.Trace, error) {
	t, err := m.repo.GetTraceByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get trace: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("trace %s not found", id)
	}
	entries, err := m.repo.GetEntries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get trace entries: %w", err)
	}
	t.Entries = entries
	return t, nil
}

func (m *Manager) List(ctx context.Context) ([]core.Trace, error) {
	return m.repo.ListTraces(ctx, core.TraceFilter{Limit: 50})
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.repo.DeleteTrace(ctx, id)
}
