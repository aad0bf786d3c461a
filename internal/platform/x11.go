package platform

import (
	"context"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/tuusuario/wm-trace-snapshots/internal/core"
)

// X11Collector reads window state from an X11 shell over EWMH. It only
// ever inspects the hierarchy; it sends no requests that change it.
type X11Collector struct {
	xu   *xgbutil.XUtil
	root xproto.Window
}

// NewX11Collector connects to the X server named by DISPLAY.
func NewX11Collector() (*X11Collector, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &X11Collector{xu: xu, root: xu.RootWin()}, nil
}

func (c *X11Collector) Name() string {
	return "x11"
}

func (c *X11Collector) Close() error {
	c.xu.Conn().Close()
	return nil
}

// CaptureEntry snapshots the EWMH client list bottom-to-top. Windows
// that disappear mid-enumeration are skipped rather than failing the
// whole entry; a snapshot of a live shell is always racing it.
func (c *X11Collector) CaptureEntry(ctx context.Context) (*core.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clients, err := ewmh.ClientListStackingGet(c.xu)
	if err != nil {
		// Fall back to the unordered client list; layer then reflects
		// enumeration order only.
		clients, err = ewmh.ClientListGet(c.xu)
		if err != nil {
			return nil, fmt.Errorf("failed to get client list: %w", err)
		}
	}

	rootFrame := c.rootFrame()

	windows := make([]*core.WindowState, 0, len(clients))
	for layer, win := range clients {
		w, err := c.captureWindow(win, int32(layer), rootFrame)
		if err != nil {
			continue
		}
		windows = append(windows, w)
	}

	return &core.Entry{Windows: windows}, nil
}

func (c *X11Collector) captureWindow(win xproto.Window, layer int32, rootFrame core.Rect) (*core.WindowState, error) {
	title, err := ewmh.WmNameGet(c.xu, win)
	if err != nil || title == "" {
		title = fmt.Sprintf("0x%x", win)
	}

	var frame *core.Rect
	if geom, err := xwindow.New(c.xu, win).DecorGeometry(); err == nil {
		frame = &core.Rect{
			Left:   int32(geom.X()),
			Top:    int32(geom.Y()),
			Right:  int32(geom.X() + geom.Width()),
			Bottom: int32(geom.Y() + geom.Height()),
		}
	}

	states, _ := ewmh.WmStateGet(c.xu, win)
	var flags uint32
	hidden := false
	for _, s := range states {
		switch s {
		case "_NET_WM_STATE_FULLSCREEN":
			flags |= core.FlagFullscreen
		case "_NET_WM_STATE_HIDDEN":
			hidden = true
		}
	}

	shown := false
	if attrs, err := xproto.GetWindowAttributes(c.xu.Conn(), win).Reply(); err == nil {
		shown = attrs.MapState == xproto.MapStateViewable
	}

	desktop := int32(0)
	if d, err := ewmh.WmDesktopGet(c.xu, win); err == nil && d != 0xFFFFFFFF {
		desktop = int32(d)
	}

	cfg := core.WindowStateConfig{
		Attributes: core.Attributes{
			Type:  windowTypeCode(c.xu, win),
			Flags: flags,
			Alpha: windowOpacity(c.xu, win),
		},
		DisplayID:      int32(c.xu.Conn().DefaultScreen),
		StackID:        desktop,
		Layer:          layer,
		IsSurfaceShown: shown,
		WindowType:     core.WindowTypeNormal,
		Rects: core.WindowRects{
			Frame:           frame,
			ContainingFrame: &rootFrame,
			ParentFrame:     &rootFrame,
		},
		IsAppWindow: isAppWindow(c.xu, win),
		Container: core.ContainerConfig{
			Title:    title,
			Token:    fmt.Sprintf("%x", win),
			StableID: fmt.Sprintf("window:%x %s", win, core.NormalizeTitle(title)),
			Visible:  shown && !hidden,
		},
	}
	if frame != nil {
		cfg.RequestedSize = core.Bounds{Width: frame.Width(), Height: frame.Height()}
		cfg.SurfacePosition = &core.Rect{
			Left: frame.Left, Top: frame.Top, Right: frame.Right, Bottom: frame.Bottom,
		}
	}

	return core.NewWindowState(cfg)
}

func (c *X11Collector) rootFrame() core.Rect {
	geom, err := xwindow.New(c.xu, c.root).Geometry()
	if err != nil {
		return core.EmptyRect
	}
	return core.Rect{
		Left:   int32(geom.X()),
		Top:    int32(geom.Y()),
		Right:  int32(geom.X() + geom.Width()),
		Bottom: int32(geom.Y() + geom.Height()),
	}
}

// windowOpacity reads _NET_WM_WINDOW_OPACITY, defaulting to fully
// opaque when the property is unset (the common case).
func windowOpacity(xu *xgbutil.XUtil, win xproto.Window) float32 {
	raw, err := xprop.GetProperty(xu, win, "_NET_WM_WINDOW_OPACITY")
	if err != nil {
		return 1
	}
	v, err := xprop.PropValNum(raw, nil)
	if err != nil {
		return 1
	}
	return float32(float64(v) / float64(0xFFFFFFFF))
}

// windowTypeCode maps the primary EWMH window type atom to a layer
// type code carried in the attributes.
func windowTypeCode(xu *xgbutil.XUtil, win xproto.Window) int32 {
	types, err := ewmh.WmWindowTypeGet(xu, win)
	if err != nil || len(types) == 0 {
		return 1
	}
	if types[0] == "_NET_WM_WINDOW_TYPE_DOCK" {
		return core.LayerTypeNavigationBar
	}
	return 1
}

// isAppWindow mirrors the usual EWMH classification: normal windows
// are apps, docks/desktops/splashes/notifications are not, untyped
// windows count as normal.
func isAppWindow(xu *xgbutil.XUtil, win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(xu, win)
	if err != nil {
		return true
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		switch t {
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return len(types) == 0
}
