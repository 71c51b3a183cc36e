package kinematics

import (
	"sync/atomic"

	"github.com/banshee-data/coaster.report/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// tangentHalfWindow is the centered stencil half-width in samples.
const tangentHalfWindow = 2

// degenerateEps is the magnitude below which a displacement or derivative is
// treated as numerically zero.
const degenerateEps = 1e-9

// DefaultForward is substituted for tangents that cannot be estimated.
var DefaultForward = r3.Vec{X: 1}

// Tangents estimates a unit tangent per sample. Interior samples use a
// centered difference over ±tangentHalfWindow (narrowed near the ends), the
// two endpoints use one-sided differences. Near-duplicate or non-finite
// neighbourhoods get DefaultForward; the number of such substitutions is
// returned alongside.
func Tangents(p geom.Polyline) ([]r3.Vec, int) {
	n := len(p)
	out := make([]r3.Vec, n)
	if n < 2 {
		for i := range out {
			out[i] = DefaultForward
		}
		return out, n
	}

	var fallbacks atomic.Int64
	parallelFor(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			a, b := tangentStencil(i, n)
			d := r3.Sub(p[b], p[a])
			norm := r3.Norm(d)
			if !(norm > degenerateEps) || !geom.IsFinite(d) {
				out[i] = DefaultForward
				fallbacks.Add(1)
				continue
			}
			out[i] = r3.Scale(1/norm, d)
		}
	})
	return out, int(fallbacks.Load())
}

// tangentStencil returns the sample indices whose difference estimates the
// tangent at i.
func tangentStencil(i, n int) (int, int) {
	switch i {
	case 0:
		return 0, 1
	case n - 1:
		return n - 2, n - 1
	}
	return max(0, i-tangentHalfWindow), min(n-1, i+tangentHalfWindow)
}
