package scoring

import (
	"math"

	"github.com/banshee-data/coaster.report/internal/features"
)

// Rating bounds.
const (
	MinRating = 0.0
	MaxRating = 10.0
)

// Rating is the outcome of scoring one ride.
type Rating struct {
	Fun    float64 `json:"fun"`
	Safety float64 `json:"safety"`
	Model  string  `json:"model"` // model version used
}

// Scorer rates a feature vector.
type Scorer interface {
	Score(v features.Vector) (Rating, error)
}

// clampRating clamps a value to [MinRating, MaxRating]; NaN becomes MinRating.
func clampRating(value float64) float64 {
	if math.IsNaN(value) {
		return MinRating
	}
	return math.Max(MinRating, math.Min(MaxRating, value))
}
