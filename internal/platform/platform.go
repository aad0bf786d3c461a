package platform

import (
	"fmt"

	"github.com/tuusuario/wm-trace-snapshots/internal/core"
)

// New selects a collector by name. "auto" picks the native collector
// for the build target.
func New(name string) (core.Collector, error) {
	if name == "" || name == "auto" {
		name = defaultCollectorName
	}

	switch name {
	case "mock":
		return NewMockCollector(), nil
	case "x11":
		return NewX11Collector()
	case "windows":
		return newWindowsCollector()
	default:
		return nil, fmt.Errorf("unknown collector %q", name)
	}
}
