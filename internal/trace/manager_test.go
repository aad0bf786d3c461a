package trace

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuusuario/wm-trace-snapshots/internal/core"
	"github.com/tuusuario/wm-trace-snapshots/internal/platform"
	"github.com/tuusuario/wm-trace-snapshots/internal/sanitize"
)

// fakeRepo keeps traces in memory; the SQLite repository has its own
// tests against the real driver.
type fakeRepo struct {
	traces  map[string]*core.Trace
	entries map[string][]core.Entry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		traces:  map[string]*core.Trace{},
		entries: map[string][]core.Entry{},
	}
}

func (f *fakeRepo) CreateTrace(ctx context.Context, t *core.Trace) error {
	cp := *t
	cp.Entries = nil
	f.traces[t.ID] = &cp
	return nil
}

func (f *fakeRepo) GetTraceByID(ctx context.Context, id string) (*core.Trace, error) {
	t, ok := f.traces[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRepo) ListTraces(ctx context.Context, filter core.TraceFilter) ([]core.Trace, error) {
	var out []core.Trace
	for _, t := range f.traces {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeRepo) DeleteTrace(ctx context.Context, id string) error {
	delete(f.traces, id)
	delete(f.entries, id)
	return nil
}

func (f *fakeRepo) SaveEntries(ctx context.Context, traceID string, entries []core.Entry) error {
	f.entries[traceID] = entries
	return nil
}

func (f *fakeRepo) GetEntries(ctx context.Context, traceID string) ([]core.Entry, error) {
	return f.entries[traceID], nil
}

func newTestManager(t *testing.T) (*Manager, *fakeRepo, *platform.MockCollector) {
	t.Helper()
	repo := newFakeRepo()
	collector := platform.NewMockCollector()
	m, err := NewManager(repo, collector, nil)
	require.NoError(t, err)
	return m, repo, collector
}

func TestCapture_SingleSample(t *testing.T) {
	m, repo, _ := newTestManager(t)

	tr, err := m.Capture(context.Background(), CaptureOptions{Name: "baseline"})
	require.NoError(t, err)

	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, "mock", tr.Collector)
	require.Len(t, tr.Entries, 1)
	assert.NotEmpty(t, tr.Entries[0].Windows)

	saved, err := repo.GetEntries(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestCapture_MultiSampleOrdered(t *testing.T) {
	m, _, _ := newTestManager(t)

	tr, err := m.Capture(context.Background(), CaptureOptions{
		Name:     "animation",
		Samples:  3,
		Interval: time.Millisecond,
	})
	require.NoError(t, err)

	require.Len(t, tr.Entries, 3)
	for i := 1; i < len(tr.Entries); i++ {
		assert.Less(t, tr.Entries[i-1].ElapsedNanos, tr.Entries[i].ElapsedNanos)
	}
}

func TestCapture_SanitizeRedactsTitles(t *testing.T) {
	m, repo, collector := newTestManager(t)
	collector.Configs = []core.WindowStateConfig{{
		Attributes:  core.Attributes{Type: 1, Alpha: 1},
		IsAppWindow: true,
		Container: core.ContainerConfig{
			Title:    "my secret notes",
			Token:    "t1",
			StableID: "window:t1 my secret notes",
			Visible:  true,
		},
	}}

	tr, err := m.Capture(context.Background(), CaptureOptions{
		Name:     "redacted",
		Sanitize: true,
	})
	require.NoError(t, err)

	saved, err := repo.GetEntries(context.Background(), tr.ID)
	require.NoError(t, err)
	require.Len(t, saved[0].Windows, 1)
	assert.Equal(t, "***REDACTED***", saved[0].Windows[0].Title())
}

func TestCapture_CancelledBetweenSamples(t *testing.T) {
	m, _, _ := newTestManager(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Capture(ctx, CaptureOptions{
		Samples:  2,
		Interval: time.Second,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGet_NotFound(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Get(context.Background(), "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestSetSanitizer(t *testing.T) {
	m, repo, collector := newTestManager(t)
	collector.Configs = []core.WindowStateConfig{{
		Attributes:  core.Attributes{Type: 1, Alpha: 1},
		IsAppWindow: true,
		Container: core.ContainerConfig{
			Title:    "anything at all",
			Token:    "t2",
			StableID: "window:t2 anything at all",
			Visible:  true,
		},
	}}

	s, err := sanitize.NewSanitizer(sanitize.Options{RedactAll: true})
	require.NoError(t, err)
	m.SetSanitizer(s)

	tr, err := m.Capture(context.Background(), CaptureOptions{Sanitize: true})
	require.NoError(t, err)

	saved, err := repo.GetEntries(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "***REDACTED***", saved[0].Windows[0].Title())
}
