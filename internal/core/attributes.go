package core

import "math"

// Window type codes as they appear in captured traces. Values outside
// this set are preserved verbatim and treated as normal windows.
const (
	WindowTypeNormal   int32 = 0
	WindowTypeStarting int32 = 1
	WindowTypeExiting  int32 = 2
	WindowTypeDebugger int32 = 3
)

// FlagFullscreen is the bit in Attributes.Flags marking a window that
// draws over the whole screen.
const FlagFullscreen uint32 = 0x00000400

// LayerTypeNavigationBar is the attributes type code of the system
// navigation bar layer.
const LayerTypeNavigationBar int32 = 2019

// Title markers stamped onto transient windows by the shell. Stripped
// during construction; mutually exclusive by construction, so removing
// one can never expose the other.
const (
	StartingWindowPrefix = "Starting "
	DebuggerWindowPrefix = "Waiting For Debugger: "
)

// Attributes carries the window layout parameters relevant to state
// comparison: the layer type, the flag bitmask, and the requested
// alpha. Opaque to geometry logic except for the flag bits and alpha.
type Attributes struct {
	Type  int32   `json:"type"`
	Flags uint32  `json:"flags"`
	Alpha float32 `json:"alpha"`
}

// IsValidNavBarType reports whether these attributes describe a
// navigation bar layer. Window-state predicates delegate here verbatim.
func (a Attributes) IsValidNavBarType() bool {
	return a.Type == LayerTypeNavigationBar
}

func (a Attributes) Hash() uint32 {
	h := uint32(a.Type)
	h = 31*h + a.Flags
	h = 31*h + math.Float32bits(a.Alpha)
	return h
}
