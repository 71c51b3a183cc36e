package features

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/coaster.report/internal/geom"
	"github.com/banshee-data/coaster.report/internal/kinematics"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Feature thresholds, in g.
const (
	AirtimeVerticalMax = 0.5 // below this the rider leaves the seat
	HighGVerticalMin   = 3.0 // sustained positive g riders notice
	PeakVerticalMin    = 2.0 // local maxima above this count as a peak
)

// NumFeatures is the length of every Vector.
const NumFeatures = 26

// ErrTooFewSamples is returned when a recording is too short to summarise.
var ErrTooFewSamples = errors.New("fewer than 2 samples")

// Names lists the feature names in Vector order.
var Names = [NumFeatures]string{
	"max_vertical_g",
	"min_vertical_g",
	"mean_vertical_g",
	"std_vertical_g",
	"max_abs_lateral_g",
	"std_lateral_g",
	"max_longitudinal_g",
	"min_longitudinal_g",
	"std_longitudinal_g",
	"max_total_g",
	"mean_total_g",
	"p95_total_g",
	"max_jerk_vertical",
	"max_jerk_lateral",
	"max_jerk_longitudinal",
	"mean_jerk_total",
	"airtime_fraction",
	"airtime_seconds",
	"longest_airtime_seconds",
	"high_g_fraction",
	"vertical_peak_count",
	"longitudinal_sign_change_rate",
	"duration_seconds",
	"height_m",
	"speed_mps",
	"length_m",
}

// Indices of the features the rule-based scorer reads directly.
const (
	IdxMaxVertical       = 0
	IdxMinVertical       = 1
	IdxMaxAbsLateral     = 4
	IdxMaxLongitudinal   = 6
	IdxMinLongitudinal   = 7
	IdxMaxJerkVertical   = 12
	IdxMeanJerkTotal     = 15
	IdxAirtimeFraction   = 16
	IdxAirtimeSeconds    = 17
	IdxHighGFraction     = 19
	IdxVerticalPeakCount = 20
	IdxDuration          = 22
	IdxHeight            = 23
	IdxSpeed             = 24
	IdxLength            = 25
)

// Vector is a ride summary in Names order.
type Vector [NumFeatures]float64

// Map returns the vector keyed by feature name.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, NumFeatures)
	for i, name := range Names {
		m[name] = v[i]
	}
	return m
}

// Metadata is the track-level context appended to the force statistics.
type Metadata struct {
	HeightM  float64 // vertical extent of the track
	SpeedMps float64 // peak speed
	LengthM  float64 // centerline arc length
}

// MetadataFromTrack derives Metadata from the track and its synthesis result.
// res may be nil, in which case the speed is left at zero.
func MetadataFromTrack(p geom.Polyline, res *kinematics.Result) Metadata {
	lo, hi := p.HeightRange()
	md := Metadata{
		HeightM: hi - lo,
		LengthM: p.Length(),
	}
	if res != nil {
		md.SpeedMps = res.PeakSpeed()
	}
	return md
}

// Extract summarises a recording. Samples must be in time order.
func Extract(samples []kinematics.AccelerometerSample, md Metadata) (Vector, error) {
	var v Vector
	n := len(samples)
	if n < 2 {
		return v, fmt.Errorf("recording has %d samples: %w", n, ErrTooFewSamples)
	}

	lat := make([]float64, n)
	vert := make([]float64, n)
	long := make([]float64, n)
	total := make([]float64, n)
	for i, s := range samples {
		lat[i], vert[i], long[i] = s.Lateral, s.Vertical, s.Longitudinal
		total[i] = math.Sqrt(s.Lateral*s.Lateral + s.Vertical*s.Vertical + s.Longitudinal*s.Longitudinal)
	}
	duration := samples[n-1].Time - samples[0].Time
	step := duration / float64(n-1)

	v[0] = floats.Max(vert)
	v[1] = floats.Min(vert)
	v[2] = stat.Mean(vert, nil)
	v[3] = stat.StdDev(vert, nil)
	v[4] = maxAbs(lat)
	v[5] = stat.StdDev(lat, nil)
	v[6] = floats.Max(long)
	v[7] = floats.Min(long)
	v[8] = stat.StdDev(long, nil)
	v[9] = floats.Max(total)
	v[10] = stat.Mean(total, nil)

	sorted := make([]float64, n)
	copy(sorted, total)
	sort.Float64s(sorted)
	v[11] = stat.Quantile(0.95, stat.Empirical, sorted, nil)

	jv, jl, jg, jt := jerks(samples)
	v[12], v[13], v[14] = maxAbs(jv), maxAbs(jl), maxAbs(jg)
	if len(jt) > 0 {
		v[15] = stat.Mean(jt, nil)
	}

	air, longest := runs(vert, func(g float64) bool { return g < AirtimeVerticalMax })
	v[16] = float64(air) / float64(n)
	v[17] = float64(air) * step
	v[18] = float64(longest) * step

	high, _ := runs(vert, func(g float64) bool { return g > HighGVerticalMin })
	v[19] = float64(high) / float64(n)
	v[20] = float64(countPeaks(vert, PeakVerticalMin))
	if duration > 0 {
		v[21] = float64(signChanges(long)) / duration
	}
	v[22] = duration

	v[23], v[24], v[25] = md.HeightM, md.SpeedMps, md.LengthM

	for i := range v {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			v[i] = 0
		}
	}
	return v, nil
}

func maxAbs(x []float64) float64 {
	var m float64
	for _, v := range x {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

// jerks returns per-axis jerk (g/s) and the magnitude of the jerk vector,
// skipping sample pairs with a non-positive time step.
func jerks(s []kinematics.AccelerometerSample) (vert, lat, long, total []float64) {
	for i := 1; i < len(s); i++ {
		dt := s[i].Time - s[i-1].Time
		if !(dt > 0) {
			continue
		}
		jv := (s[i].Vertical - s[i-1].Vertical) / dt
		jl := (s[i].Lateral - s[i-1].Lateral) / dt
		jg := (s[i].Longitudinal - s[i-1].Longitudinal) / dt
		vert = append(vert, jv)
		lat = append(lat, jl)
		long = append(long, jg)
		total = append(total, math.Sqrt(jv*jv+jl*jl+jg*jg))
	}
	return vert, lat, long, total
}

// runs counts samples matching pred and the longest consecutive run of them.
func runs(x []float64, pred func(float64) bool) (count, longest int) {
	cur := 0
	for _, v := range x {
		if pred(v) {
			count++
			cur++
			longest = max(longest, cur)
		} else {
			cur = 0
		}
	}
	return count, longest
}

// countPeaks counts local maxima above threshold. A plateau counts once.
func countPeaks(x []float64, threshold float64) int {
	peaks := 0
	for i := 1; i < len(x)-1; i++ {
		if x[i] > threshold && x[i] > x[i-1] && x[i] >= x[i+1] {
			peaks++
		}
	}
	return peaks
}

// signChanges counts sign flips, ignoring exact zeros.
func signChanges(x []float64) int {
	changes := 0
	prev := 0.0
	for _, v := range x {
		if v == 0 {
			continue
		}
		if prev != 0 && (v > 0) != (prev > 0) {
			changes++
		}
		prev = v
	}
	return changes
}
