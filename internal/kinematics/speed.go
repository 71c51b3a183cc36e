package kinematics

import (
	"fmt"
	"math"

	"github.com/banshee-data/coaster.report/internal/geom"
	"github.com/banshee-data/coaster.report/internal/units"
	"gonum.org/v1/gonum/spatial/r3"
)

// SpeedProfile is the output of SolveSpeed.
type SpeedProfile struct {
	Speed           []float64 // m/s, never negative
	TangentialAccel []float64 // m/s² along the tangent
	// Stalled reports that the vehicle does not complete the track. For
	// dynamics integration the speed is pinned at zero from StallIndex to the
	// end; for energy conservation StallIndex is the first sample higher than
	// the available energy can reach.
	Stalled    bool
	StallIndex int // -1 when not stalled
	Anomalies  int
}

// SolveSpeed derives per-sample speed and tangential acceleration from the
// (smoothed) polyline and its tangents using the model in params. kernel is
// only used by DynamicsIntegration and may be nil for EnergyConservation.
func SolveSpeed(p geom.Polyline, tangents []r3.Vec, params Parameters, kernel Integrator) (SpeedProfile, error) {
	if len(p) != len(tangents) {
		return SpeedProfile{}, fmt.Errorf("%d points but %d tangents: %w", len(p), len(tangents), geom.ErrWrongDimension)
	}
	switch m := params.Model.(type) {
	case EnergyConservation:
		return solveEnergy(p, tangents, params.InitialSpeed, m.Efficiency), nil
	case DynamicsIntegration:
		if kernel == nil {
			kernel = DefaultIntegrator()
		}
		return solveDynamics(tangents, params.InitialSpeed, params.DT, m, kernel), nil
	default:
		return SpeedProfile{}, fmt.Errorf("unsupported speed model %T: %w", params.Model, ErrInvalidParameter)
	}
}

// EnergySpeed is the closed form v = sqrt(v0² + 2·g·(h0 − h)·η), floored at
// zero where the radicand goes negative.
func EnergySpeed(v0, h0, h, efficiency float64) float64 {
	r := v0*v0 + 2*units.Gravity*(h0-h)*efficiency
	if !(r > 0) {
		return 0
	}
	return math.Sqrt(r)
}

func solveEnergy(p geom.Polyline, tangents []r3.Vec, v0, efficiency float64) SpeedProfile {
	n := len(p)
	prof := SpeedProfile{
		Speed:           make([]float64, n),
		TangentialAccel: make([]float64, n),
		StallIndex:      -1,
	}
	if n == 0 {
		return prof
	}
	h0, ok := firstFiniteHeight(p)
	if !ok {
		prof.Anomalies = n
		return prof
	}
	prev := v0
	for i := range p {
		r := v0*v0 + 2*units.Gravity*(h0-p[i].Z)*efficiency
		// Gravity along the tangent, read directly rather than differencing speed.
		a := -units.Gravity * tangents[i].Z

		if isFinite(r) && isFinite(a) {
			if !prof.Stalled && r < 0 {
				prof.Stalled = true
				prof.StallIndex = i
			}
			prof.Speed[i] = EnergySpeed(v0, h0, p[i].Z, efficiency)
			prof.TangentialAccel[i] = a
		} else {
			// Hold the last good speed with no surge.
			prof.Speed[i], prof.TangentialAccel[i] = prev, 0
			prof.Anomalies++
		}
		prev = prof.Speed[i]
	}
	return prof
}

func firstFiniteHeight(p geom.Polyline) (float64, bool) {
	for _, v := range p {
		if isFinite(v.Z) {
			return v.Z, true
		}
	}
	return 0, false
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func solveDynamics(tangents []r3.Vec, v0, dt float64, m DynamicsIntegration, kernel Integrator) SpeedProfile {
	n := len(tangents)
	in := IntegrationInput{
		GravityParallel: make([]float64, n),
		GravityNormal:   make([]float64, n),
		InitialSpeed:    v0,
		DT:              dt,
		RollingFriction: m.RollingFriction,
		DragPerMass:     m.DragPerMass(),
	}
	for i, t := range tangents {
		tz := math.Max(-1, math.Min(1, t.Z))
		in.GravityParallel[i] = -units.Gravity * tz
		in.GravityNormal[i] = units.Gravity * math.Sqrt(1-tz*tz)
	}

	speed, accel, anomalies := kernel.Integrate(in)
	prof := SpeedProfile{
		Speed:           speed,
		TangentialAccel: accel,
		StallIndex:      -1,
		Anomalies:       anomalies,
	}
	prof.StallIndex = stallIndex(speed)
	prof.Stalled = prof.StallIndex >= 0
	return prof
}

// stallIndex returns the first index from which speed stays at zero through
// the end of the track, or -1 if the final sample is moving.
func stallIndex(speed []float64) int {
	n := len(speed)
	if n == 0 || speed[n-1] > 0 {
		return -1
	}
	i := n - 1
	for i > 0 && speed[i-1] == 0 {
		i--
	}
	return i
}
