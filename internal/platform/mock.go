package platform

import (
	"context"
	"fmt"

	"github.com/tuusuario/wm-trace-snapshots/internal/core"
)

// MockCollector implements core.Collector with deterministic fixture
// windows, for tests and for exercising the full pipeline without a
// running shell.
type MockCollector struct {
	// Configs override the built-in fixtures when non-empty.
	Configs []core.WindowStateConfig

	captures int64
}

func NewMockCollector() *MockCollector {
	return &MockCollector{}
}

func (m *MockCollector) Name() string {
	return "mock"
}

func (m *MockCollector) Close() error {
	return nil
}

// CaptureEntry builds one hierarchy snapshot from the configured
// fixtures. Entries are stamped with a monotonically increasing
// elapsed time so multi-sample traces stay ordered.
func (m *MockCollector) CaptureEntry(ctx context.Context) (*core.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	configs := m.Configs
	if len(configs) == 0 {
		configs = defaultFixtures()
	}

	windows := make([]*core.WindowState, 0, len(configs))
	for _, cfg := range configs {
		w, err := core.NewWindowState(cfg)
		if err != nil {
			return nil, fmt.Errorf("mock fixture: %w", err)
		}
		windows = append(windows, w)
	}

	m.captures++
	return &core.Entry{
		ElapsedNanos: m.captures * int64(16_000_000), // one frame apart
		Windows:      windows,
	}, nil
}

func defaultFixtures() []core.WindowStateConfig {
	frame := core.Rect{Left: 0, Top: 0, Right: 1080, Bottom: 1920}
	navFrame := core.Rect{Left: 0, Top: 1794, Right: 1080, Bottom: 1920}
	return []core.WindowStateConfig{
		{
			Attributes:     core.Attributes{Type: 1, Flags: core.FlagFullscreen, Alpha: 1},
			Layer:          2,
			IsSurfaceShown: true,
			WindowType:     core.WindowTypeNormal,
			RequestedSize:  core.Bounds{Width: 1080, Height: 1920},
			Rects: core.WindowRects{
				Frame:           &frame,
				ContainingFrame: &frame,
				ParentFrame:     &frame,
			},
			IsAppWindow: true,
			Container: core.ContainerConfig{
				Title:    "com.example.app/.MainActivity",
				Token:    "b8f9d3a",
				StableID: "window:b8f9d3a com.example.app/.MainActivity",
				Visible:  true,
			},
		},
		{
			Attributes:     core.Attributes{Type: 3, Flags: 0, Alpha: 1},
			Layer:          3,
			IsSurfaceShown: true,
			WindowType:     core.WindowTypeStarting,
			Container: core.ContainerConfig{
				Title:    "Starting com.example.app",
				Token:    "4ce1f80",
				StableID: "window:4ce1f80 Starting com.example.app",
				Visible:  true,
			},
		},
		{
			Attributes:     core.Attributes{Type: core.LayerTypeNavigationBar, Flags: 0, Alpha: 1},
			Layer:          21,
			IsSurfaceShown: true,
			WindowType:     core.WindowTypeNormal,
			Rects: core.WindowRects{
				Frame:           &navFrame,
				ContainingFrame: &navFrame,
			},
			Container: core.ContainerConfig{
				Title:    "NavigationBar",
				Token:    "77aa210",
				StableID: "window:77aa210 NavigationBar",
				Visible:  true,
			},
		},
	}
}
