//go:build windows

package platform

import (
	"context"
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/tuusuario/wm-trace-snapshots/internal/core"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumWindows          = user32.NewProc("EnumWindows")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procIsWindowVisible      = user32.NewProc("IsWindowVisible")
	procIsIconic             = user32.NewProc("IsIconic")
	procGetWindowRect        = user32.NewProc("GetWindowRect")
	procGetWindowLongW       = user32.NewProc("GetWindowLongW")
	procGetSystemMetrics     = user32.NewProc("GetSystemMetrics")

	procGetLayeredWindowAttributes = user32.NewProc("GetLayeredWindowAttributes")
)

const (
	gwlExStyle     = -20
	wsExLayered    = 0x00080000
	wsExToolWindow = 0x00000080
	lwaAlpha       = 0x00000002
	smCxScreen     = 0
	smCyScreen     = 1
)

const defaultCollectorName = "windows"

// WindowsCollector enumerates top-level windows via user32. Read-only:
// it never repositions or closes anything.
type WindowsCollector struct{}

func newWindowsCollector() (core.Collector, error) {
	return &WindowsCollector{}, nil
}

func (w *WindowsCollector) Name() string {
	return "windows"
}

func (w *WindowsCollector) Close() error {
	return nil
}

type winRect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

func (w *WindowsCollector) CaptureEntry(ctx context.Context) (*core.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	screen := screenFrame()

	var states []*core.WindowState
	layer := int32(0)

	cb := syscall.NewCallback(func(hwnd syscall.Handle, lparam uintptr) uintptr {
		visible, _, _ := procIsWindowVisible.Call(uintptr(hwnd))

		titleLen, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
		if titleLen == 0 {
			return 1 // continue enumeration
		}
		buf := make([]uint16, titleLen+1)
		procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), titleLen+1)
		title := syscall.UTF16ToString(buf)

		var r winRect
		procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
		frame := core.Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}

		exStyle, _, _ := procGetWindowLongW.Call(uintptr(hwnd), uintptr(gwlExStyle))
		iconic, _, _ := procIsIconic.Call(uintptr(hwnd))

		var flags uint32
		if frame == screen {
			flags |= core.FlagFullscreen
		}

		cfg := core.WindowStateConfig{
			Attributes: core.Attributes{
				Type:  1,
				Flags: flags,
				Alpha: layeredAlpha(hwnd, uintptr(exStyle)),
			},
			Layer:          layer,
			IsSurfaceShown: visible != 0 && iconic == 0,
			WindowType:     core.WindowTypeNormal,
			RequestedSize:  core.Bounds{Width: frame.Width(), Height: frame.Height()},
			Rects: core.WindowRects{
				Frame:           &frame,
				ContainingFrame: &screen,
				ParentFrame:     &screen,
			},
			IsAppWindow: uintptr(exStyle)&wsExToolWindow == 0,
			Container: core.ContainerConfig{
				Title:    title,
				Token:    fmt.Sprintf("%x", hwnd),
				StableID: fmt.Sprintf("window:%x %s", hwnd, core.NormalizeTitle(title)),
				Visible:  visible != 0,
			},
		}

		state, err := core.NewWindowState(cfg)
		if err != nil {
			return 1
		}
		states = append(states, state)
		layer++
		return 1
	})

	procEnumWindows.Call(cb, 0)

	return &core.Entry{Windows: states}, nil
}

func screenFrame() core.Rect {
	cx, _, _ := procGetSystemMetrics.Call(uintptr(smCxScreen))
	cy, _, _ := procGetSystemMetrics.Call(uintptr(smCyScreen))
	return core.Rect{Right: int32(cx), Bottom: int32(cy)}
}

// layeredAlpha reads the per-window alpha of layered windows.
// GetLayeredWindowAttributes fails for windows painted through
// UpdateLayeredWindow; those report opaque, which matches how the
// compositor treats them for hit testing.
func layeredAlpha(hwnd syscall.Handle, exStyle uintptr) float32 {
	if exStyle&wsExLayered == 0 {
		return 1
	}
	var key uint32
	var alpha byte
	var flags uint32
	ret, _, _ := procGetLayeredWindowAttributes.Call(
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&key)),
		uintptr(unsafe.Pointer(&alpha)),
		uintptr(unsafe.Pointer(&flags)),
	)
	if ret == 0 || flags&lwaAlpha == 0 {
		return 1
	}
	return float32(alpha) / 255
}
