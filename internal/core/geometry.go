package core

import "fmt"

// Rect is a rectangle in screen coordinates. The zero value is the
// canonical empty rect used wherever the capture source supplied no
// rectangle at all.
type Rect struct {
	Left   int32 `json:"left"`
	Top    int32 `json:"top"`
	Right  int32 `json:"right"`
	Bottom int32 `json:"bottom"`
}

// EmptyRect is the shared sentinel for "no rectangle provided".
var EmptyRect = Rect{}

func (r Rect) Width() int32 {
	return r.Right - r.Left
}

func (r Rect) Height() int32 {
	return r.Bottom - r.Top
}

// IsEmpty reports whether the rect encloses no area.
func (r Rect) IsEmpty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// String renders the compact [l,t][r,b] form used in trace output.
func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d][%d,%d]", r.Left, r.Top, r.Right, r.Bottom)
}

// Hash mixes the four edges with the fixed 31 multiplier so the value
// is stable across processes and serialization round-trips.
func (r Rect) Hash() uint32 {
	h := uint32(r.Left)
	h = 31*h + uint32(r.Top)
	h = 31*h + uint32(r.Right)
	h = 31*h + uint32(r.Bottom)
	return h
}

// coalesceRect normalizes an optional rect to the canonical empty
// sentinel. Runs exactly once, at construction; downstream code never
// sees absence for the normalized fields.
func coalesceRect(r *Rect) Rect {
	if r == nil {
		return EmptyRect
	}
	return *r
}

// Bounds is a requested (width, height) pair, as asked for rather than
// as laid out.
type Bounds struct {
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
}

func (b Bounds) String() string {
	return fmt.Sprintf("%dx%d", b.Width, b.Height)
}

func (b Bounds) Hash() uint32 {
	return 31*uint32(b.Width) + uint32(b.Height)
}

// Region is a set of non-overlapping rects. Window states only ever
// derive one from a single frame rect, but diff consumers treat it as
// a general region.
type Region struct {
	Rects []Rect `json:"rects"`
}

// RegionFrom builds the region covering a single rect. An empty rect
// yields the empty region.
func RegionFrom(r Rect) Region {
	if r.IsEmpty() {
		return Region{}
	}
	return Region{Rects: []Rect{r}}
}

// Bounds returns the bounding rect of the region.
func (g Region) Bounds() Rect {
	if len(g.Rects) == 0 {
		return EmptyRect
	}
	out := g.Rects[0]
	for _, r := range g.Rects[1:] {
		if r.Left < out.Left {
			out.Left = r.Left
		}
		if r.Top < out.Top {
			out.Top = r.Top
		}
		if r.Right > out.Right {
			out.Right = r.Right
		}
		if r.Bottom > out.Bottom {
			out.Bottom = r.Bottom
		}
	}
	return out
}

func (g Region) Equal(other Region) bool {
	if len(g.Rects) != len(other.Rects) {
		return false
	}
	for i, r := range g.Rects {
		if r != other.Rects[i] {
			return false
		}
	}
	return true
}

func (g Region) String() string {
	if len(g.Rects) == 0 {
		return "SkRegion()"
	}
	s := "SkRegion("
	for _, r := range g.Rects {
		s += r.String()
	}
	return s + ")"
}

func (g Region) Hash() uint32 {
	var h uint32
	for _, r := range g.Rects {
		h = 31*h + r.Hash()
	}
	return h
}
