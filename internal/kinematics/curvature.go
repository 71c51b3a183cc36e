package kinematics

import (
	"math"

	"github.com/banshee-data/coaster.report/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// CurvatureProfile holds the per-sample curvature estimate.
type CurvatureProfile struct {
	// Radius is ds/|dT| clamped into [MinRadius, MaxRadius].
	Radius []float64
	// Normal is the unit principal normal, pointing toward the center of
	// curvature. Where no curvature is detectable it is a horizontal vector
	// perpendicular to the tangent.
	Normal []r3.Vec
	// Curved is false where the raw radius reached MaxRadius or the normal
	// fell back to horizontal. Centripetal acceleration is only applied where
	// Curved is true.
	Curved []bool
}

// Curvature estimates radius of curvature and principal normal from the
// tangent's rate of change over a centered ±1 stencil, with arc length taken
// along the polyline between the stencil ends.
func Curvature(p geom.Polyline, tangents []r3.Vec, minRadius, maxRadius float64) CurvatureProfile {
	n := len(p)
	prof := CurvatureProfile{
		Radius: make([]float64, n),
		Normal: make([]r3.Vec, n),
		Curved: make([]bool, n),
	}
	if n < 2 {
		for i := range prof.Radius {
			prof.Radius[i] = maxRadius
			prof.Normal[i] = horizontalNormal(tangents[i])
		}
		return prof
	}

	seg := p.SegmentLengths()
	parallelFor(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			a, b := max(0, i-1), min(n-1, i+1)
			var ds float64
			for j := a; j < b; j++ {
				ds += seg[j]
			}
			dT := r3.Sub(tangents[b], tangents[a])
			dTmag := r3.Norm(dT)

			radius := maxRadius
			if dTmag > degenerateEps && ds > degenerateEps {
				radius = ds / dTmag
			}
			curved := radius < maxRadius

			// Drop the component along the tangent so the normal is exactly
			// perpendicular to the direction of travel.
			t := tangents[i]
			perp := r3.Sub(dT, r3.Scale(r3.Dot(dT, t), t))
			if pm := r3.Norm(perp); pm > degenerateEps && geom.IsFinite(perp) {
				prof.Normal[i] = r3.Scale(1/pm, perp)
			} else {
				prof.Normal[i] = horizontalNormal(t)
				curved = false
			}

			if math.IsNaN(radius) {
				radius, curved = maxRadius, false
			}
			prof.Radius[i] = math.Min(math.Max(radius, minRadius), maxRadius)
			prof.Curved[i] = curved
		}
	})
	return prof
}

// horizontalNormal returns the horizontal unit vector perpendicular to t, or
// the global lateral axis when t is vertical.
func horizontalNormal(t r3.Vec) r3.Vec {
	h := r3.Cross(geom.Up, t)
	if m := r3.Norm(h); m > degenerateEps {
		return r3.Scale(1/m, h)
	}
	return r3.Vec{Y: 1}
}
