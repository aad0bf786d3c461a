package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuusuario/wm-trace-snapshots/internal/core"
)

func seedTrace(t *testing.T, repo *fakeRepo, id string, windows ...*core.WindowState) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.CreateTrace(ctx, &core.Trace{ID: id, Name: id}))
	require.NoError(t, repo.SaveEntries(ctx, id, []core.Entry{{Windows: windows}}))
}

func TestDiff_IdenticalTraces(t *testing.T) {
	m, repo, _ := newTestManager(t)
	w1 := stateWith(t, "window:1 app", "1", "app", nil)
	w2 := stateWith(t, "window:1 app", "1", "app", nil)
	seedTrace(t, repo, "a", w1)
	seedTrace(t, repo, "b", w2)

	d, err := m.Diff(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.False(t, d.Changed())
	assert.Equal(t, 1, d.CommonWindows)
	assert.Empty(t, d.GeometryDrift)
}

func TestDiff_AddedAndRemoved(t *testing.T) {
	m, repo, _ := newTestManager(t)
	seedTrace(t, repo, "a",
		stateWith(t, "window:1 alpha", "1", "alpha app", nil))
	seedTrace(t, repo, "b",
		stateWith(t, "window:2 beta", "2", "beta app", nil))

	d, err := m.Diff(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.True(t, d.Changed())
	require.Len(t, d.RemovedWindows, 1)
	require.Len(t, d.AddedWindows, 1)
	assert.Contains(t, d.RemovedWindows[0], "alpha app")
	assert.Contains(t, d.AddedWindows[0], "beta app")
}

func TestDiff_ChangedWindow(t *testing.T) {
	m, repo, _ := newTestManager(t)
	cf := core.Rect{Right: 100, Bottom: 100}

	before := stateWith(t, "window:1 app", "1", "app", nil)
	after, err := core.NewWindowState(core.WindowStateConfig{
		Attributes: core.Attributes{Type: 1, Alpha: 1},
		Rects:      core.WindowRects{ContainingFrame: &cf},
		Container: core.ContainerConfig{
			Title: "app", Token: "1", StableID: "window:1 app", Visible: true,
		},
	})
	require.NoError(t, err)

	seedTrace(t, repo, "a", before)
	seedTrace(t, repo, "b", after)

	d, err := m.Diff(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.True(t, d.Changed())
	require.Len(t, d.ChangedWindows, 1)
	change := d.ChangedWindows[0]
	assert.Equal(t, "window:1 app", change.StableID)
	assert.Contains(t, change.Before, "cf=[0,0][0,0]")
	assert.Contains(t, change.After, "cf=[0,0][100,100]")
	assert.True(t, change.HashChanged)
}

// Frame movement is invisible to the narrow equality but visible to the
// broad hash, so it surfaces as geometry drift rather than a change.
func TestDiff_FrameOnlyMovementIsDriftNotChange(t *testing.T) {
	m, repo, _ := newTestManager(t)

	frameA := core.Rect{Right: 100, Bottom: 100}
	frameB := core.Rect{Left: 50, Top: 50, Right: 150, Bottom: 150}
	seedTrace(t, repo, "a", stateWith(t, "window:1 app", "1", "app", &frameA))
	seedTrace(t, repo, "b", stateWith(t, "window:1 app", "1", "app", &frameB))

	d, err := m.Diff(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.False(t, d.Changed())
	assert.Equal(t, 1, d.CommonWindows)
	require.Len(t, d.GeometryDrift, 1)
	assert.Contains(t, d.GeometryDrift[0].Detail, "[0,0][100,100] -> [50,50][150,150]")
}

func TestDiff_GitChanged(t *testing.T) {
	m, repo, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTrace(ctx, &core.Trace{ID: "a", GitBranch: "main"}))
	require.NoError(t, repo.CreateTrace(ctx, &core.Trace{ID: "b", GitBranch: "feature"}))

	d, err := m.Diff(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, d.GitChanged)
	assert.True(t, d.Changed())
}

func TestDiff_MissingTrace(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Diff(context.Background(), "nope", "also-nope")
	assert.Error(t, err)
}
