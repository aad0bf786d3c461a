package core

import (
	"fmt"
	"strings"
)

// WindowRects groups the optional rectangles reported for a window. A
// nil entry means the capture source supplied nothing; construction
// replaces it with EmptyRect so later code never checks for absence.
type WindowRects struct {
	Frame              *Rect
	ContainingFrame    *Rect
	ParentFrame        *Rect
	ContentFrame       *Rect
	ContentInsets      *Rect
	SurfaceInsets      *Rect
	GivenContentInsets *Rect
	Crop               *Rect
}

// WindowStateConfig is the full raw field set a collector hands to
// NewWindowState.
type WindowStateConfig struct {
	Attributes     Attributes
	DisplayID      int32
	StackID        int32
	Layer          int32
	IsSurfaceShown bool
	WindowType     int32
	RequestedSize  Bounds
	// SurfacePosition stays optional: absence means the window has no
	// surface, which is a different fact than a zero-area surface.
	SurfacePosition *Rect
	Rects           WindowRects
	IsAppWindow     bool
	Container       ContainerConfig
}

// WindowState is an immutable snapshot of a single window: normalized
// geometry, identity, and the derived flags comparison logic reads. It
// is built once by the capture pipeline and never mutated; traces on
// both sides of a process boundary must agree on its equality, hash,
// and rendering.
type WindowState struct {
	container *Container

	attributes     Attributes
	displayID      int32
	stackID        int32
	layer          int32
	isSurfaceShown bool
	windowType     int32
	requestedSize  Bounds

	surfacePosition *Rect

	frame              Rect
	containingFrame    Rect
	parentFrame        Rect
	contentFrame       Rect
	contentInsets      Rect
	surfaceInsets      Rect
	givenContentInsets Rect
	crop               Rect

	// frameRegion is a cached projection of frame, not independent
	// state.
	frameRegion Region

	isAppWindow bool
}

// NewWindowState normalizes the raw capture fields into an immutable
// entity. The title is prefix-stripped before it reaches the container
// base; every optional rect is coalesced to EmptyRect exactly once.
// The only failure mode is invalid container context.
func NewWindowState(cfg WindowStateConfig) (*WindowState, error) {
	containerCfg := cfg.Container
	containerCfg.Title = NormalizeTitle(containerCfg.Title)

	container, err := NewContainer(containerCfg)
	if err != nil {
		return nil, fmt.Errorf("invalid window container context: %w", err)
	}

	var surfacePosition *Rect
	if cfg.SurfacePosition != nil {
		sp := *cfg.SurfacePosition
		surfacePosition = &sp
	}

	frame := coalesceRect(cfg.Rects.Frame)

	return &WindowState{
		container:          container,
		attributes:         cfg.Attributes,
		displayID:          cfg.DisplayID,
		stackID:            cfg.StackID,
		layer:              cfg.Layer,
		isSurfaceShown:     cfg.IsSurfaceShown,
		windowType:         cfg.WindowType,
		requestedSize:      cfg.RequestedSize,
		surfacePosition:    surfacePosition,
		frame:              frame,
		containingFrame:    coalesceRect(cfg.Rects.ContainingFrame),
		parentFrame:        coalesceRect(cfg.Rects.ParentFrame),
		contentFrame:       coalesceRect(cfg.Rects.ContentFrame),
		contentInsets:      coalesceRect(cfg.Rects.ContentInsets),
		surfaceInsets:      coalesceRect(cfg.Rects.SurfaceInsets),
		givenContentInsets: coalesceRect(cfg.Rects.GivenContentInsets),
		crop:               coalesceRect(cfg.Rects.Crop),
		frameRegion:        RegionFrom(frame),
		isAppWindow:        cfg.IsAppWindow,
	}, nil
}

// NormalizeTitle strips the starting-window or waiting-for-debugger
// marker from a raw title. Idempotent: the prefixes are mutually
// exclusive, so a stripped title never re-matches.
func NormalizeTitle(title string) string {
	if strings.HasPrefix(title, StartingWindowPrefix) {
		return strings.TrimPrefix(title, StartingWindowPrefix)
	}
	if strings.HasPrefix(title, DebuggerWindowPrefix) {
		return strings.TrimPrefix(title, DebuggerWindowPrefix)
	}
	return title
}

func (w *WindowState) Container() *Container { return w.container }
func (w *WindowState) Title() string         { return w.container.Title() }
func (w *WindowState) Token() string         { return w.container.Token() }
func (w *WindowState) StableID() string      { return w.container.StableID() }

func (w *WindowState) Attributes() Attributes { return w.attributes }
func (w *WindowState) DisplayID() int32       { return w.displayID }
func (w *WindowState) StackID() int32         { return w.stackID }
func (w *WindowState) Layer() int32           { return w.layer }
func (w *WindowState) IsSurfaceShown() bool   { return w.isSurfaceShown }
func (w *WindowState) WindowType() int32      { return w.windowType }
func (w *WindowState) RequestedSize() Bounds  { return w.requestedSize }

func (w *WindowState) Frame() Rect              { return w.frame }
func (w *WindowState) ContainingFrame() Rect    { return w.containingFrame }
func (w *WindowState) ParentFrame() Rect        { return w.parentFrame }
func (w *WindowState) ContentFrame() Rect       { return w.contentFrame }
func (w *WindowState) ContentInsets() Rect      { return w.contentInsets }
func (w *WindowState) SurfaceInsets() Rect      { return w.surfaceInsets }
func (w *WindowState) GivenContentInsets() Rect { return w.givenContentInsets }
func (w *WindowState) Crop() Rect               { return w.crop }
func (w *WindowState) FrameRegion() Region      { return w.frameRegion }
func (w *WindowState) IsAppWindow() bool        { return w.isAppWindow }

// SurfacePosition returns the surface rect, or nil when the window has
// no surface. The pointer is a copy; the entity stays immutable.
func (w *WindowState) SurfacePosition() *Rect {
	if w.surfacePosition == nil {
		return nil
	}
	sp := *w.surfacePosition
	return &sp
}

// IsVisible combines the container's base visibility with the requested
// alpha: an alpha of zero hides the window regardless of the base
// signal.
func (w *WindowState) IsVisible() bool {
	return w.container.IsVisible() && w.attributes.Alpha > 0
}

// IsFullscreen replaces the container base predicate with the flag bit.
func (w *WindowState) IsFullscreen() bool {
	return w.attributes.Flags&FlagFullscreen != 0
}

func (w *WindowState) IsStartingWindow() bool {
	return w.windowType == WindowTypeStarting
}

func (w *WindowState) IsExitingWindow() bool {
	return w.windowType == WindowTypeExiting
}

func (w *WindowState) IsDebuggerWindow() bool {
	return w.windowType == WindowTypeDebugger
}

func (w *WindowState) IsValidNavBarType() bool {
	return w.attributes.IsValidNavBarType()
}

// windowTypeSuffix maps the three special type codes to their display
// markers. Unknown codes fall into the normal bucket: no suffix.
func windowTypeSuffix(windowType int32) string {
	switch windowType {
	case WindowTypeStarting:
		return " STARTING"
	case WindowTypeExiting:
		return " EXITING"
	case WindowTypeDebugger:
		return " DEBUGGER"
	default:
		return ""
	}
}

// String renders the deterministic one-line summary used in logs and
// trace diffs. No parsing contract; identical field values must render
// identically so snapshot assertions hold.
func (w *WindowState) String() string {
	return fmt.Sprintf("WindowState: {%s %s%s} type=%d cf=%s pf=%s",
		w.Token(), w.Title(), windowTypeSuffix(w.windowType),
		w.attributes.Type, w.containingFrame, w.parentFrame)
}

// Equals is the narrow structural equality trace diffing depends on:
// stable identity, attributes, token, title, containing frame, parent
// frame. Frame, insets, crop, layer, display/stack IDs and the derived
// flags are deliberately excluded so positional diffs tolerate them.
// Do not widen this set; downstream diff logic depends on it exactly.
func (w *WindowState) Equals(other *WindowState) bool {
	if other == nil {
		return false
	}
	return w.StableID() == other.StableID() &&
		w.attributes == other.attributes &&
		w.Token() == other.Token() &&
		w.Title() == other.Title() &&
		w.containingFrame == other.containingFrame &&
		w.parentFrame == other.parentFrame
}

// Hash mixes a strict superset of the Equals field set with the fixed
// 31 multiplier, in a fixed order. Because equality ignores fields the
// hash includes, two states equal under Equals may hash differently;
// that asymmetry is a known defect kept for compatibility with
// existing trace tooling (see DESIGN.md), so hashes partition
// candidates but never stand in for Equals.
func (w *WindowState) Hash() uint32 {
	h := w.attributes.Hash()
	h = 31*h + uint32(w.displayID)
	h = 31*h + uint32(w.stackID)
	h = 31*h + uint32(w.layer)
	h = 31*h + hashBool(w.isSurfaceShown)
	h = 31*h + uint32(w.windowType)
	h = 31*h + w.frame.Hash()
	h = 31*h + w.containingFrame.Hash()
	h = 31*h + w.parentFrame.Hash()
	h = 31*h + w.contentFrame.Hash()
	h = 31*h + w.contentInsets.Hash()
	h = 31*h + w.surfaceInsets.Hash()
	h = 31*h + w.givenContentInsets.Hash()
	h = 31*h + w.crop.Hash()
	h = 31*h + hashBool(w.isAppWindow)
	h = 31*h + hashBool(w.IsStartingWindow())
	h = 31*h + hashBool(w.IsExitingWindow())
	h = 31*h + hashBool(w.IsDebuggerWindow())
	h = 31*h + hashBool(w.IsValidNavBarType())
	h = 31*h + w.frameRegion.Hash()
	return h
}

func hashBool(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
