package geometry

// Point is a 2D coordinate in millimeters.
// All geometry in this module is normalized to millimeters at parse time.
type Point struct {
	X float64
	Y float64
}

// ArcDirection is the sweep direction of an arc as drawn by the plotter.
type ArcDirection int

const (
	Clockwise ArcDirection = iota
	CounterClockwise
)

func (d ArcDirection) String() string {
	if d == Clockwise {
		return "clockwise"
	}
	return "counter-clockwise"
}

// OutlineSegment is one piece of a board outline path. The concrete types
// are Line and Arc; consumers switch over them and treat anything else as
// an error rather than silently dropping it.
type OutlineSegment interface {
	StartPoint() Point
	EndPoint() Point
}

// Line is a straight outline segment.
type Line struct {
	Start Point
	End   Point
}

func (l Line) StartPoint() Point { return l.Start }
func (l Line) EndPoint() Point   { return l.End }

// Arc is a circular outline segment. Center is absolute (the parser has
// already resolved the I/J offset against the start point). Direction is
// the interpolation mode that was active when the arc was drawn.
type Arc struct {
	Start     Point
	End       Point
	Center    Point
	Direction ArcDirection
}

func (a Arc) StartPoint() Point { return a.Start }
func (a Arc) EndPoint() Point   { return a.End }
