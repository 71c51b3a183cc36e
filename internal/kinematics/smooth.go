package kinematics

import (
	"math"

	"github.com/banshee-data/coaster.report/internal/geom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// minSmoothPoints is the shortest polyline SmoothPolyline will filter. Shorter
// inputs are returned unchanged.
const minSmoothPoints = 5

// kernelTruncate is the kernel half-width in standard deviations.
const kernelTruncate = 4.0

// GaussianKernel returns normalized Gaussian weights of spread sigma samples,
// truncated at kernelTruncate·sigma. A non-positive sigma yields the identity
// kernel {1}.
func GaussianKernel(sigma float64) []float64 {
	if !(sigma > 0) {
		return []float64{1}
	}
	radius := int(kernelTruncate*sigma + 0.5)
	k := make([]float64, 2*radius+1)
	twoVar := 2 * sigma * sigma
	for i := -radius; i <= radius; i++ {
		k[i+radius] = math.Exp(-float64(i*i) / twoVar)
	}
	floats.Scale(1/floats.Sum(k), k)
	return k
}

// SmoothSeries low-pass filters x with a Gaussian kernel using edge-replicate
// boundaries: samples beyond either end take the value of the nearest end.
// Output length always equals input length.
func SmoothSeries(x []float64, sigma float64) []float64 {
	out := make([]float64, len(x))
	if len(x) < 2 || !(sigma > 0) {
		copy(out, x)
		return out
	}
	k := GaussianKernel(sigma)
	radius := len(k) / 2
	last := len(x) - 1
	for i := range x {
		var acc float64
		for j, w := range k {
			idx := i + j - radius
			if idx < 0 {
				idx = 0
			} else if idx > last {
				idx = last
			}
			acc += w * x[idx]
		}
		out[i] = acc
	}
	return out
}

// SmoothPolyline filters each coordinate independently. Polylines shorter than
// minSmoothPoints come back as an unsmoothed copy. The input is never modified.
func SmoothPolyline(p geom.Polyline, sigma float64) geom.Polyline {
	if len(p) < minSmoothPoints || !(sigma > 0) {
		return p.Clone()
	}
	xs := SmoothSeries(p.Component(geom.X), sigma)
	ys := SmoothSeries(p.Component(geom.Y), sigma)
	zs := SmoothSeries(p.Component(geom.Z), sigma)
	out := make(geom.Polyline, len(p))
	for i := range out {
		out[i] = r3.Vec{X: xs[i], Y: ys[i], Z: zs[i]}
	}
	return out
}
