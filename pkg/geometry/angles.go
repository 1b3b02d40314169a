package geometry

import (
	"fmt"
	"math"
)

// RadiusTolerance is the largest allowed disagreement, in mm, between the
// start and end radii of an arc measured from its computed center. A larger
// disagreement means the center offset was wrong and the arc is garbage.
const RadiusTolerance = 1e-3

// GeometryError reports an arc whose start and end points do not lie on the
// same circle around its center.
type GeometryError struct {
	StartRadius float64
	EndRadius   float64
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("inconsistent arc radii: start radius %.6f mm, end radius %.6f mm",
		e.StartRadius, e.EndRadius)
}

// ArcAngles is an arc expressed the way DXF expresses it: center plus radius
// plus start/end angles in degrees, swept counter-clockwise from StartAngle
// to EndAngle.
type ArcAngles struct {
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

// Angles converts the arc to center/radius/angle form. The radius is taken
// from the end point; the start radius must agree within RadiusTolerance.
// For a clockwise arc the two angles are swapped so that a counter-clockwise
// sweep from StartAngle to EndAngle traces the same set of points.
func (a Arc) Angles() (ArcAngles, error) {
	startRadius := math.Hypot(a.Start.X-a.Center.X, a.Start.Y-a.Center.Y)
	endRadius := math.Hypot(a.End.X-a.Center.X, a.End.Y-a.Center.Y)
	if math.Abs(startRadius-endRadius) > RadiusTolerance {
		return ArcAngles{}, &GeometryError{StartRadius: startRadius, EndRadius: endRadius}
	}

	startAngle := normalizeDegrees(angleOf(a.Start, a.Center))
	endAngle := normalizeDegrees(angleOf(a.End, a.Center))
	if a.Direction == Clockwise {
		startAngle, endAngle = endAngle, startAngle
	}

	return ArcAngles{
		Radius:     endRadius,
		StartAngle: startAngle,
		EndAngle:   endAngle,
	}, nil
}

// angleOf returns the angle of p seen from center, in degrees.
func angleOf(p, center Point) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X) * 180.0 / math.Pi
}

// normalizeDegrees wraps an angle into [0, 360).
func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}
