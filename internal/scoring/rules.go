package scoring

import (
	"math"

	"github.com/banshee-data/coaster.report/internal/features"
)

// RuleModelVersion identifies ratings produced by RuleScorer.
const RuleModelVersion = "rule-based-v1.0"

// Rule thresholds (configurable for tuning)
const (
	// Vertical g thresholds
	ThrillVerticalMin  = 3.0 // positive g riders feel as a thrill
	ComfortVerticalMax = 5.0 // above this sustained g becomes unpleasant
	UnsafeVerticalMax  = 6.0 // grey-out territory
	EjectorVerticalMin = -1.5

	// Lateral g thresholds
	ComfortLateralMax = 1.0
	UnsafeLateralMax  = 1.8

	// Longitudinal g thresholds
	HarshBrakingMin = -1.5
	LaunchMax       = 2.0

	// Jerk (g/s)
	HarshJerkMax = 40.0

	// Airtime (seconds) at which the fun contribution saturates
	AirtimeSaturation = 4.0

	// Neutral starting points
	BaseFun    = 3.0
	BaseSafety = 10.0
)

// RuleScorer rates rides from hand-tuned thresholds.
// This can be replaced with a trained ensemble loaded through Handle.
type RuleScorer struct {
	ModelVersion string
}

// NewRuleScorer creates a new rule-based scorer.
func NewRuleScorer() *RuleScorer {
	return &RuleScorer{
		ModelVersion: RuleModelVersion,
	}
}

// Score implements Scorer. It never fails.
func (rs *RuleScorer) Score(v features.Vector) (Rating, error) {
	return Rating{
		Fun:    clampRating(rs.fun(v)),
		Safety: clampRating(rs.safety(v)),
		Model:  rs.ModelVersion,
	}, nil
}

// fun rewards airtime, strong but comfortable positive g, speed and height.
func (rs *RuleScorer) fun(v features.Vector) float64 {
	fun := BaseFun

	// Airtime is the biggest single contributor
	fun += 2.5 * math.Min(v[features.IdxAirtimeSeconds], AirtimeSaturation) / AirtimeSaturation

	// Positive g in the thrill band
	if maxV := v[features.IdxMaxVertical]; maxV >= ThrillVerticalMin && maxV <= ComfortVerticalMax {
		fun += 1.5
	} else if maxV > ComfortVerticalMax {
		fun += 0.5
	}

	// Repeated moments
	fun += 0.25 * math.Min(v[features.IdxVerticalPeakCount], 6)

	// Speed and height, saturating around a large modern coaster
	fun += 1.0 * math.Min(v[features.IdxSpeed]/35, 1)
	fun += 0.5 * math.Min(v[features.IdxHeight]/60, 1)

	// Very short rides are less fun
	if v[features.IdxDuration] < 10 {
		fun -= 1.0
	}

	return fun
}

// safety starts from a perfect score and deducts for each exceeded limit.
func (rs *RuleScorer) safety(v features.Vector) float64 {
	safety := BaseSafety

	if maxV := v[features.IdxMaxVertical]; maxV > UnsafeVerticalMax {
		safety -= 4.0
	} else if maxV > ComfortVerticalMax {
		safety -= 1.5
	}

	if v[features.IdxMinVertical] < EjectorVerticalMin {
		safety -= 3.0
	}

	if lat := v[features.IdxMaxAbsLateral]; lat > UnsafeLateralMax {
		safety -= 3.0
	} else if lat > ComfortLateralMax {
		safety -= 1.0
	}

	if v[features.IdxMinLongitudinal] < HarshBrakingMin || v[features.IdxMaxLongitudinal] > LaunchMax {
		safety -= 1.0
	}

	if v[features.IdxMaxJerkVertical] > HarshJerkMax {
		safety -= 1.0
	}

	// Sustained high g is worse than a spike
	safety -= 5.0 * v[features.IdxHighGFraction]

	return safety
}
