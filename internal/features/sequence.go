package features

import "github.com/banshee-data/coaster.report/internal/kinematics"

// Neutral is the reading of a rider at rest on level track, in
// (lateral, vertical, longitudinal) order.
var Neutral = [3]float64{0, 1, 0}

// SequenceWindow returns exactly length rows of (lateral, vertical,
// longitudinal). Longer recordings are truncated; shorter ones are padded at
// the end with Neutral.
func SequenceWindow(samples []kinematics.AccelerometerSample, length int) [][3]float64 {
	if length <= 0 {
		return nil
	}
	out := make([][3]float64, length)
	for i := range out {
		if i < len(samples) {
			s := samples[i]
			out[i] = [3]float64{s.Lateral, s.Vertical, s.Longitudinal}
		} else {
			out[i] = Neutral
		}
	}
	return out
}
