package kinematics

import (
	"fmt"
	"math"

	"github.com/banshee-data/coaster.report/internal/geom"
	"github.com/banshee-data/coaster.report/internal/monitoring"
	"gonum.org/v1/gonum/spatial/r3"
)

var logf = monitoring.Component("kinematics")

// AccelerometerSample is one row of the synthetic accelerometer table.
// Time is nominal (index·dt), not physical time of flight.
type AccelerometerSample struct {
	Time         float64 `json:"time"`
	Lateral      float64 `json:"lateral"`
	Vertical     float64 `json:"vertical"`
	Longitudinal float64 `json:"longitudinal"`
}

// MotionProfile is the struct-of-arrays view of every intermediate quantity,
// one entry per input point.
type MotionProfile struct {
	Position        []r3.Vec // smoothed centerline
	Tangent         []r3.Vec
	Normal          []r3.Vec
	Radius          []float64
	Curved          []bool
	Speed           []float64
	TangentialAccel []float64
	Centripetal     []r3.Vec
	Inertial        []r3.Vec
	SpecificForce   []r3.Vec

	// Rider-frame g before clipping and smoothing.
	Lateral      []float64
	Vertical     []float64
	Longitudinal []float64
}

// Result is the output of one synthesis run.
type Result struct {
	Samples []AccelerometerSample
	Motion  MotionProfile

	Model      string // speed model name
	Integrator string // kernel name, empty for energy conservation

	// Stalled is a valid physical outcome: the vehicle would not complete the
	// circuit. See SpeedProfile.
	Stalled    bool
	StallIndex int

	// TangentFallbacks counts samples whose tangent was substituted.
	TangentFallbacks int
	// CentripetalCapped counts samples limited by MaxCentripetal.
	CentripetalCapped int
	// Anomalies counts non-finite input points filled from their neighbours
	// plus non-finite intermediate values replaced by neutral ones.
	Anomalies int
}

// Engine runs the synthesis pipeline with a fixed integrator kernel.
type Engine struct {
	integrator Integrator
}

// NewEngine returns an Engine using kernel for dynamics integration. A nil
// kernel selects DefaultIntegrator.
func NewEngine(kernel Integrator) *Engine {
	if kernel == nil {
		kernel = DefaultIntegrator()
	}
	return &Engine{integrator: kernel}
}

// Synthesize runs the full pipeline with the process default kernel.
func Synthesize(points geom.Polyline, params Parameters) (*Result, error) {
	return NewEngine(nil).Synthesize(points, params)
}

// Integrator returns the kernel this engine uses.
func (e *Engine) Integrator() Integrator { return e.integrator }

// Synthesize turns points into a conditioned accelerometer table. points is
// only read; the caller keeps ownership.
func (e *Engine) Synthesize(points geom.Polyline, params Parameters) (*Result, error) {
	if err := points.Validate(); err != nil {
		return nil, fmt.Errorf("invalid track: %w", err)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	tun := params.Tuning

	// Non-finite points are filled from their finite neighbours before any
	// smoothing can spread them along the track.
	clean, repaired, err := points.FillNonFinite()
	if err != nil {
		return nil, fmt.Errorf("invalid track: %w", err)
	}
	if repaired > 0 {
		logf("interpolated %d of %d track points with non-finite coordinates", repaired, len(points))
	}

	smoothed := SmoothPolyline(clean, tun.GeometrySigma)
	tangents, fallbacks := Tangents(smoothed)
	curv := Curvature(smoothed, tangents, tun.MinRadius, tun.MaxRadius)

	speed, err := SolveSpeed(smoothed, tangents, params, e.integrator)
	if err != nil {
		return nil, err
	}
	comp := Compose(tangents, curv, speed.Speed, speed.TangentialAccel, tun.MaxCentripetal)
	replaced := sanitizeSpecificForce(comp.SpecificForce)
	frame := Project(tangents, comp.SpecificForce)

	res := &Result{
		Motion: MotionProfile{
			Position:        smoothed,
			Tangent:         tangents,
			Normal:          curv.Normal,
			Radius:          curv.Radius,
			Curved:          curv.Curved,
			Speed:           speed.Speed,
			TangentialAccel: speed.TangentialAccel,
			Centripetal:     comp.Centripetal,
			Inertial:        comp.Inertial,
			SpecificForce:   comp.SpecificForce,
			Lateral:         frame.Lateral,
			Vertical:        frame.Vertical,
			Longitudinal:    frame.Longitudinal,
		},
		Model:             params.Model.Name(),
		Stalled:           speed.Stalled,
		StallIndex:        speed.StallIndex,
		TangentFallbacks:  fallbacks,
		CentripetalCapped: comp.Capped,
		Anomalies:         repaired + speed.Anomalies + replaced,
	}
	if _, ok := params.Model.(DynamicsIntegration); ok {
		res.Integrator = e.integrator.Name()
	}
	res.Samples = buildSamples(frame, params.DT, tun)

	if fallbacks > 0 {
		logf("%d of %d tangents fell back to the default forward direction (coincident neighbouring points)", fallbacks, len(points))
	}
	if n := speed.Anomalies + replaced; n > 0 {
		logf("replaced %d non-finite speed or force values with neutral readings", n)
	}
	if res.Stalled {
		logf("%s: vehicle stalls at sample %d of %d", res.Model, res.StallIndex, len(points))
	}
	return res, nil
}

func buildSamples(frame RiderFrame, dt float64, tun Tuning) []AccelerometerSample {
	lat := Condition(frame.Lateral, tun.ClipG, tun.SignalSigma)
	vert := Condition(frame.Vertical, tun.ClipG, tun.SignalSigma)
	long := Condition(frame.Longitudinal, tun.ClipG, tun.SignalSigma)

	samples := make([]AccelerometerSample, len(lat))
	for i := range samples {
		samples[i] = AccelerometerSample{
			Time:         float64(i) * dt,
			Lateral:      lat[i],
			Vertical:     vert[i],
			Longitudinal: long[i],
		}
	}
	return samples
}

// Duration is the nominal length of the table in seconds.
func (r *Result) Duration() float64 {
	if len(r.Samples) == 0 {
		return 0
	}
	return r.Samples[len(r.Samples)-1].Time
}

// PeakSpeed returns the highest speed reached, m/s.
func (r *Result) PeakSpeed() float64 {
	var peak float64
	for _, v := range r.Motion.Speed {
		peak = math.Max(peak, v)
	}
	return peak
}
