package trace

import (
	"context"
	"fmt"

	"github.com/tuusuario/wm-trace-snapshots/internal/core"
)

// WindowChange records a paired window whose compared state drifted
// between the two traces. Before/After carry the deterministic
// renderings; the diff output has no parsing contract.
type WindowChange struct {
	StableID string
	Before   string
	After    string
	// HashChanged reports whether the broad hash moved too. A changed
	// window with an unchanged hash cannot happen (the hash covers a
	// superset of the equality fields); an unchanged window with a
	// changed hash can, and is reported separately as drift.
	HashChanged bool
}

// Drift is a window equal under the narrow contract whose broad hash
// still moved: geometry-only movement the equality deliberately
// tolerates.
type Drift struct {
	StableID string
	Detail   string
}

type DiffResult struct {
	SourceID       string
	TargetID       string
	GitChanged     bool
	AddedWindows   []string
	RemovedWindows []string
	ChangedWindows []WindowChange
	GeometryDrift  []Drift
	CommonWindows  int
}

// Changed reports whether the diff found any structural difference.
// Geometry drift alone does not count; the narrow equality contract
// exists precisely to tolerate it.
func (d *DiffResult) Changed() bool {
	return d.GitChanged || len(d.AddedWindows) > 0 ||
		len(d.RemovedWindows) > 0 || len(d.ChangedWindows) > 0
}

// Diff compares the settled (final) entries of two traces. Windows are
// paired by stable ID, then scored title match; pairs are classified
// with the narrow equality contract.
func (m *Manager) Diff(ctx context.Context, sourceID, targetID string) (*DiffResult, error) {
	source, err := m.Get(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := m.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	result := &DiffResult{
		SourceID: sourceID,
		TargetID: targetID,
		GitChanged: source.GitBranch != target.GitBranch ||
			source.GitRepo != target.GitRepo ||
			source.GitHeadHash != target.GitHeadHash,
	}

	var sourceWindows, targetWindows []*core.WindowState
	if e := source.LastEntry(); e != nil {
		sourceWindows = e.Windows
	}
	if e := target.LastEntry(); e != nil {
		targetWindows = e.Windows
	}

	pairing := DefaultMatcher().Pair(sourceWindows, targetWindows)

	for _, pair := range pairing.Pairs {
		before, after := pair[0], pair[1]
		if before.Equals(after) {
			result.CommonWindows++
			if before.Hash() != after.Hash() {
				result.GeometryDrift = append(result.GeometryDrift, Drift{
					StableID: before.StableID(),
					Detail: fmt.Sprintf("frame %s -> %s",
						before.Frame(), after.Frame()),
				})
			}
			continue
		}
		result.ChangedWindows = append(result.ChangedWindows, WindowChange{
			StableID:    before.StableID(),
			Before:      before.String(),
			After:       after.String(),
			HashChanged: before.Hash() != after.Hash(),
		})
	}
	for _, w := range pairing.OnlyA {
		result.RemovedWindows = append(result.RemovedWindows, w.String())
	}
	for _, w := range pairing.OnlyB {
		result.AddedWindows = append(result.AddedWindows, w.String())
	}

	return result, nil
}
