package excellon

import "math"

// DiameterRange is an inclusive band of drill diameters in mm. A nil Max
// means the band is unbounded above.
type DiameterRange struct {
	Min float64
	Max *float64
}

// Filter returns the hits whose diameter falls inside r, inclusive on both
// ends. Diameters are rounded to 3 decimal places before comparing so that
// representation error from fixed-point decoding cannot flip a hole that
// sits exactly on a boundary.
func Filter(hits []DrillHit, r DiameterRange) []DrillHit {
	kept := make([]DrillHit, 0, len(hits))
	for _, hit := range hits {
		d := roundMM(hit.Diameter)
		if d < roundMM(r.Min) {
			continue
		}
		if r.Max != nil && d > roundMM(*r.Max) {
			continue
		}
		kept = append(kept, hit)
	}
	return kept
}

// roundMM rounds a length to micrometre resolution.
func roundMM(v float64) float64 {
	return math.Round(v*1000.0) / 1000.0
}
