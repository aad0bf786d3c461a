//go:build !windows

package platform

import (
	"errors"

	"github.com/tuusuario/wm-trace-snapshots/internal/core"
)

const defaultCollectorName = "x11"

func newWindowsCollector() (core.Collector, error) {
	return nil, errors.New("windows collector requires GOOS=windows")
}
