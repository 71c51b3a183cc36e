package kinematics

import (
	"math"
	"sync"

	"golang.org/x/sys/cpu"
)

// IntegrationInput is the per-sample forcing for the dynamics recurrence.
// All slices have equal length n ≥ 1.
type IntegrationInput struct {
	// GravityParallel is the gravity component along the tangent (m/s²),
	// positive when going downhill.
	GravityParallel []float64
	// GravityNormal is the magnitude of gravity perpendicular to the tangent
	// (m/s²); rolling friction is proportional to it.
	GravityNormal []float64

	InitialSpeed    float64
	DT              float64
	RollingFriction float64 // μ
	DragPerMass     float64 // k in k·v²
}

// Integrator runs the semi-implicit Euler speed recurrence
//
//	a[i] = g∥[i] − μ·g⊥[i] − k·v[i−1]²   (while moving)
//	v[i] = max(0, v[i−1] + a[i]·dt)
//
// A vehicle that comes to rest where g∥ does not exceed rolling friction has
// stalled: it never reaches the following track points, so speed and
// acceleration stay at zero through the end. Non-finite accelerations are
// replaced by zero and counted.
type Integrator interface {
	Name() string
	Integrate(in IntegrationInput) (speed, accel []float64, anomalies int)
}

// ScalarIntegrator is the portable reference kernel.
type ScalarIntegrator struct{}

// Name implements Integrator.
func (ScalarIntegrator) Name() string { return "scalar" }

// Integrate implements Integrator.
func (ScalarIntegrator) Integrate(in IntegrationInput) ([]float64, []float64, int) {
	n := len(in.GravityParallel)
	speed := make([]float64, n)
	accel := make([]float64, n)
	if n == 0 {
		return speed, accel, 0
	}

	anomalies := 0
	v := in.InitialSpeed
	for i := 0; i < n; i++ {
		gp, gn := in.GravityParallel[i], in.GravityNormal[i]
		a := netAccel(v, gp, gn, in.RollingFriction, in.DragPerMass)
		if math.IsNaN(a) || math.IsInf(a, 0) {
			a = 0
			anomalies++
		}
		if i > 0 {
			v = clampSpeed(v + a*in.DT)
		}
		speed[i] = v
		accel[i] = a
		if v == 0 && gp-in.RollingFriction*gn <= 0 {
			// Stalled; the rest of the track stays zero.
			break
		}
	}
	return speed, accel, anomalies
}

// FMAIntegrator is the same recurrence with fused multiply-adds and the
// friction and drag terms hoisted out of the loop. It is selected where the
// CPU executes FMA natively.
type FMAIntegrator struct{}

// Name implements Integrator.
func (FMAIntegrator) Name() string { return "fma" }

// Integrate implements Integrator.
func (FMAIntegrator) Integrate(in IntegrationInput) ([]float64, []float64, int) {
	n := len(in.GravityParallel)
	speed := make([]float64, n)
	accel := make([]float64, n)
	if n == 0 {
		return speed, accel, 0
	}
	gp := in.GravityParallel[:n]
	gn := in.GravityNormal[:n]
	mu, k, dt := in.RollingFriction, in.DragPerMass, in.DT

	anomalies := 0
	v := in.InitialSpeed
	for i := range gp {
		drive := math.FMA(-mu, gn[i], gp[i])
		var a float64
		if v > 0 {
			a = math.FMA(-k*v, v, drive)
		} else if drive > 0 {
			a = drive
		}
		if math.IsNaN(a) || math.IsInf(a, 0) {
			a = 0
			anomalies++
		}
		if i > 0 {
			v = clampSpeed(math.FMA(a, dt, v))
		}
		speed[i] = v
		accel[i] = a
		if v == 0 && drive <= 0 {
			break
		}
	}
	return speed, accel, anomalies
}

// netAccel is the tangential acceleration at speed v.
func netAccel(v, gPar, gNorm, mu, k float64) float64 {
	drive := gPar - mu*gNorm
	if v > 0 {
		return drive - k*v*v
	}
	// At rest: static friction holds unless the slope overcomes it.
	if drive > 0 {
		return drive
	}
	return 0
}

// clampSpeed pins negative (and NaN) speeds to zero: the vehicle never rolls
// backward from numerical underflow.
func clampSpeed(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return v
}

var (
	defaultIntegratorOnce sync.Once
	defaultIntegrator     Integrator
)

// DefaultIntegrator returns the kernel chosen for this process. The choice is
// made once, on first call, from CPU capabilities and never changes.
func DefaultIntegrator() Integrator {
	defaultIntegratorOnce.Do(func() {
		defaultIntegrator = selectIntegrator(cpu.X86.HasFMA || cpu.ARM64.HasASIMD)
	})
	return defaultIntegrator
}

func selectIntegrator(hasFMA bool) Integrator {
	if hasFMA {
		return FMAIntegrator{}
	}
	return ScalarIntegrator{}
}
