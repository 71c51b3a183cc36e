package kinematics

import "math"

// Clip limits every value to [-limit, limit]. NaN becomes 0.
func Clip(x []float64, limit float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if math.IsNaN(v) {
			continue
		}
		out[i] = math.Max(-limit, math.Min(limit, v))
	}
	return out
}

// Condition emulates sensor response: clip to ±clipG, then Gaussian smooth
// with spread sigma samples. Length and order are preserved. The kernel is a
// convex combination, so the final clip only absorbs rounding in its weights.
func Condition(x []float64, clipG, sigma float64) []float64 {
	return Clip(SmoothSeries(Clip(x, clipG), sigma), clipG)
}
