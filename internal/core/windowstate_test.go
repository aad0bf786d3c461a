package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() WindowStateConfig {
	return WindowStateConfig{
		Attributes: Attributes{Type: 1, Flags: 0, Alpha: 1},
		DisplayID:  0,
		StackID:    0,
		Layer:      2,
		WindowType: WindowTypeNormal,
		Container: ContainerConfig{
			Title:    "com.foo/.Bar",
			Token:    "a1b2c3",
			StableID: "window:a1b2c3 com.foo/.Bar",
			Visible:  true,
		},
	}
}

func mustWindow(t *testing.T, cfg WindowStateConfig) *WindowState {
	t.Helper()
	w, err := NewWindowState(cfg)
	require.NoError(t, err)
	return w
}

func TestNewWindowState_AbsentRectsNormalizeToEmpty(t *testing.T) {
	w := mustWindow(t, baseConfig())

	rects := []Rect{
		w.Frame(), w.ContainingFrame(), w.ParentFrame(), w.ContentFrame(),
		w.ContentInsets(), w.SurfaceInsets(), w.GivenContentInsets(), w.Crop(),
	}
	for i, r := range rects {
		assert.Equal(t, EmptyRect, r, "rect field %d", i)
	}

	// Two all-absent constructions agree field for field.
	other := mustWindow(t, baseConfig())
	assert.Equal(t, w.Frame(), other.Frame())
	assert.Equal(t, w.Crop(), other.Crop())
	assert.Nil(t, w.SurfacePosition())
}

func TestNewWindowState_SuppliedRectsKept(t *testing.T) {
	cfg := baseConfig()
	frame := Rect{Left: 0, Top: 0, Right: 1080, Bottom: 1920}
	cfg.Rects.Frame = &frame
	w := mustWindow(t, cfg)

	assert.Equal(t, frame, w.Frame())
	assert.Equal(t, RegionFrom(frame), w.FrameRegion())
	assert.Equal(t, frame, w.FrameRegion().Bounds())
}

func TestNewWindowState_RejectsMissingStableID(t *testing.T) {
	cfg := baseConfig()
	cfg.Container.StableID = ""
	_, err := NewWindowState(cfg)
	require.ErrorIs(t, err, ErrMissingStableID)
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "com.foo/.Bar", NormalizeTitle("Starting com.foo/.Bar"))
	assert.Equal(t, "com.foo/.Bar", NormalizeTitle("Waiting For Debugger: com.foo/.Bar"))
	assert.Equal(t, "com.foo/.Bar", NormalizeTitle("com.foo/.Bar"))

	// Idempotent: stripping twice equals stripping once, and a stripped
	// title never matches the other prefix.
	once := NormalizeTitle("Starting com.foo/.Bar")
	assert.Equal(t, once, NormalizeTitle(once))
	assert.False(t, strings.HasPrefix(once, DebuggerWindowPrefix))
}

func TestIsFullscreen_FlagBit(t *testing.T) {
	cases := []struct {
		flags uint32
		want  bool
	}{
		{0x400, true},
		{0x3FF, false},
		{0xC00, true},
		{0, false},
	}
	for _, tc := range cases {
		cfg := baseConfig()
		cfg.Attributes.Flags = tc.flags
		w := mustWindow(t, cfg)
		assert.Equal(t, tc.want, w.IsFullscreen(), "flags=%#x", tc.flags)
	}
}

func TestIsVisible_GatedByAlphaAndBase(t *testing.T) {
	cfg := baseConfig()
	cfg.Attributes.Alpha = 0
	w := mustWindow(t, cfg)
	assert.False(t, w.IsVisible(), "alpha 0 hides even a visible container")

	cfg = baseConfig()
	cfg.Container.Visible = false
	w = mustWindow(t, cfg)
	assert.False(t, w.IsVisible(), "hidden container wins over alpha")

	w = mustWindow(t, baseConfig())
	assert.True(t, w.IsVisible())
}

func TestWindowTypePredicates(t *testing.T) {
	cases := []struct {
		windowType int32
		starting   bool
		exiting    bool
		debugger   bool
	}{
		{WindowTypeNormal, false, false, false},
		{WindowTypeStarting, true, false, false},
		{WindowTypeExiting, false, true, false},
		{WindowTypeDebugger, false, false, true},
		{99, false, false, false}, // unknown falls into the normal bucket
	}
	for _, tc := range cases {
		cfg := baseConfig()
		cfg.WindowType = tc.windowType
		w := mustWindow(t, cfg)
		assert.Equal(t, tc.starting, w.IsStartingWindow())
		assert.Equal(t, tc.exiting, w.IsExitingWindow())
		assert.Equal(t, tc.debugger, w.IsDebuggerWindow())
		assert.Equal(t, tc.windowType, w.WindowType(), "raw code preserved verbatim")
	}
}

func TestIsValidNavBarType_Delegated(t *testing.T) {
	cfg := baseConfig()
	cfg.Attributes.Type = LayerTypeNavigationBar
	assert.True(t, mustWindow(t, cfg).IsValidNavBarType())
	assert.False(t, mustWindow(t, baseConfig()).IsValidNavBarType())
}

func TestEquals_IgnoresFrameLayerInsets(t *testing.T) {
	a := mustWindow(t, baseConfig())

	cfg := baseConfig()
	frame := Rect{Left: 10, Top: 20, Right: 30, Bottom: 40}
	insets := Rect{Left: 0, Top: 0, Right: 5, Bottom: 5}
	cfg.Rects.Frame = &frame
	cfg.Rects.ContentInsets = &insets
	cfg.Layer = 42
	cfg.DisplayID = 1
	cfg.StackID = 7
	b := mustWindow(t, cfg)

	assert.True(t, a.Equals(b))
	assert.True(t, b.Equals(a))
}

func TestEquals_SensitiveFields(t *testing.T) {
	a := mustWindow(t, baseConfig())

	cfg := baseConfig()
	cfg.Container.StableID = "window:other"
	assert.False(t, a.Equals(mustWindow(t, cfg)))

	cfg = baseConfig()
	cfg.Attributes.Flags = 0x400
	assert.False(t, a.Equals(mustWindow(t, cfg)))

	cfg = baseConfig()
	cfg.Container.Token = "deadbeef"
	assert.False(t, a.Equals(mustWindow(t, cfg)))

	cfg = baseConfig()
	cfg.Container.Title = "other"
	assert.False(t, a.Equals(mustWindow(t, cfg)))

	cfg = baseConfig()
	cf := Rect{Right: 100, Bottom: 100}
	cfg.Rects.ContainingFrame = &cf
	assert.False(t, a.Equals(mustWindow(t, cfg)))

	cfg = baseConfig()
	pf := Rect{Right: 50, Bottom: 50}
	cfg.Rects.ParentFrame = &pf
	assert.False(t, a.Equals(mustWindow(t, cfg)))

	assert.False(t, a.Equals(nil))
}

// Hashing deliberately covers a strict superset of the equality field
// set, so two states equal under Equals may hash apart. That breaks the
// usual equal-implies-same-hash law on purpose; the test tolerates the
// divergence rather than asserting hash equality.
func TestHashMayDivergeForEqualStates(t *testing.T) {
	a := mustWindow(t, baseConfig())

	cfg := baseConfig()
	frame := Rect{Left: 10, Top: 20, Right: 30, Bottom: 40}
	cfg.Rects.Frame = &frame
	b := mustWindow(t, cfg)

	require.True(t, a.Equals(b))
	assert.NotEqual(t, a.Hash(), b.Hash(),
		"frame feeds the hash but not equality, so these diverge")
}

func TestHash_DeterministicAcrossConstructions(t *testing.T) {
	cfg := baseConfig()
	frame := Rect{Left: 1, Top: 2, Right: 3, Bottom: 4}
	cfg.Rects.Frame = &frame
	cfg.IsSurfaceShown = true
	cfg.IsAppWindow = true

	a := mustWindow(t, cfg)
	b := mustWindow(t, cfg)
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestString_Suffixes(t *testing.T) {
	cfg := baseConfig()
	cfg.WindowType = WindowTypeStarting
	assert.Contains(t, mustWindow(t, cfg).String(), " STARTING")

	cfg.WindowType = WindowTypeExiting
	assert.Contains(t, mustWindow(t, cfg).String(), " EXITING")

	cfg.WindowType = WindowTypeDebugger
	assert.Contains(t, mustWindow(t, cfg).String(), " DEBUGGER")

	cfg.WindowType = 99
	s := mustWindow(t, cfg).String()
	assert.NotContains(t, s, " STARTING")
	assert.NotContains(t, s, " EXITING")
	assert.NotContains(t, s, " DEBUGGER")
}

func TestString_Format(t *testing.T) {
	cfg := baseConfig()
	cf := Rect{Left: 0, Top: 0, Right: 1080, Bottom: 1920}
	cfg.Rects.ContainingFrame = &cf
	w := mustWindow(t, cfg)

	assert.Equal(t,
		"WindowState: {a1b2c3 com.foo/.Bar} type=1 cf=[0,0][1080,1920] pf=[0,0][0,0]",
		w.String())
}

func TestStartingWindowScenario(t *testing.T) {
	cfg := baseConfig()
	cfg.WindowType = WindowTypeStarting
	cfg.Container.Title = "Starting com.foo/.Bar"
	w := mustWindow(t, cfg)

	assert.Equal(t, "com.foo/.Bar", w.Title())
	assert.True(t, w.IsStartingWindow())
	assert.Equal(t, EmptyRect, w.Frame())
	assert.Equal(t, EmptyRect, w.ContainingFrame())
	assert.Equal(t, EmptyRect, w.ParentFrame())
	assert.Equal(t, EmptyRect, w.ContentFrame())
	assert.Equal(t, EmptyRect, w.ContentInsets())
	assert.Equal(t, EmptyRect, w.SurfaceInsets())
	assert.Equal(t, EmptyRect, w.GivenContentInsets())
	assert.Equal(t, EmptyRect, w.Crop())
	assert.Contains(t, w.String(), " STARTING")
}

func TestContainerHierarchyNavigation(t *testing.T) {
	parent, err := NewContainer(ContainerConfig{
		Title:    "root",
		StableID: "container:root",
		Visible:  true,
	})
	require.NoError(t, err)

	cfg := baseConfig()
	cfg.Container.Parent = parent
	w := mustWindow(t, cfg)

	assert.Same(t, parent, w.Container().Parent())
	require.Len(t, parent.Children(), 1)
	assert.Same(t, w.Container(), parent.Children()[0])
	assert.False(t, parent.IsFullscreen())
}
