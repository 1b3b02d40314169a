package gerber

import (
	"github.com/OpenTraceLab/OpenTraceGerber/pkg/coord"
	"github.com/OpenTraceLab/OpenTraceGerber/pkg/geometry"
)

// InterpolationMode is the active draw mode of the plotter.
type InterpolationMode int

const (
	Linear InterpolationMode = iota
	ClockwiseArc
	CounterClockwiseArc
)

func (m InterpolationMode) String() string {
	switch m {
	case ClockwiseArc:
		return "clockwise arc"
	case CounterClockwiseArc:
		return "counter-clockwise arc"
	default:
		return "linear"
	}
}

// plotterState is the mutable state of one parse pass. Each call to Parse
// owns its own instance and discards it, so nothing leaks between files.
type plotterState struct {
	current     geometry.Point
	haveCurrent bool
	mode        InterpolationMode
	units       coord.Units
	format      *coord.FormatSpec // nil until an FS parameter is seen
	incremental bool
	aperture    int // selected D code, 0 when none selected yet
}
