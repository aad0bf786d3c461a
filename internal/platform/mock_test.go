package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuusuario/wm-trace-snapshots/internal/core"
)

func TestMockCollector_DefaultFixtures(t *testing.T) {
	m := NewMockCollector()
	entry, err := m.CaptureEntry(context.Background())
	require.NoError(t, err)
	require.Len(t, entry.Windows, 3)

	app := entry.Windows[0]
	assert.True(t, app.IsAppWindow())
	assert.True(t, app.IsFullscreen())
	assert.True(t, app.IsVisible())

	starting := entry.Windows[1]
	assert.True(t, starting.IsStartingWindow())
	assert.Equal(t, "com.example.app", starting.Title(), "prefix stripped at construction")

	nav := entry.Windows[2]
	assert.True(t, nav.IsValidNavBarType())
}

func TestMockCollector_EntriesAdvanceInTime(t *testing.T) {
	m := NewMockCollector()
	first, err := m.CaptureEntry(context.Background())
	require.NoError(t, err)
	second, err := m.CaptureEntry(context.Background())
	require.NoError(t, err)
	assert.Less(t, first.ElapsedNanos, second.ElapsedNanos)
}

func TestMockCollector_CustomConfigs(t *testing.T) {
	m := NewMockCollector()
	m.Configs = []core.WindowStateConfig{{
		Attributes: core.Attributes{Type: 1, Alpha: 1},
		Container: core.ContainerConfig{
			Title:    "only",
			Token:    "t0",
			StableID: "window:t0 only",
			Visible:  true,
		},
	}}

	entry, err := m.CaptureEntry(context.Background())
	require.NoError(t, err)
	require.Len(t, entry.Windows, 1)
	assert.Equal(t, "only", entry.Windows[0].Title())
}

func TestNew_SelectsCollectors(t *testing.T) {
	c, err := New("mock")
	require.NoError(t, err)
	assert.Equal(t, "mock", c.Name())

	_, err = New("nope")
	assert.Error(t, err)
}
