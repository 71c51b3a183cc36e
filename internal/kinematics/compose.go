package kinematics

import (
	"math"

	"github.com/banshee-data/coaster.report/internal/units"
	"gonum.org/v1/gonum/spatial/r3"
)

// GravityVector is gravitational acceleration in the world frame.
var GravityVector = r3.Vec{Z: -units.Gravity}

// Composition holds the world-frame acceleration vectors for every sample.
type Composition struct {
	Centripetal   []r3.Vec // toward the center of curvature
	Inertial      []r3.Vec // tangential + centripetal
	SpecificForce []r3.Vec // inertial − gravity: what an accelerometer reads
	// Capped counts samples whose v²/R exceeded the centripetal cap.
	Capped int
}

// CentripetalMagnitude returns v²/R limited to maxCentripetal, and whether the
// limit was hit.
func CentripetalMagnitude(v, radius, maxCentripetal float64) (float64, bool) {
	a := v * v / radius
	if a > maxCentripetal {
		return maxCentripetal, true
	}
	return a, false
}

// Compose combines tangential and centripetal acceleration into the inertial
// acceleration and subtracts gravity to get specific force. Centripetal
// acceleration is applied only where curv.Curved is set.
func Compose(tangents []r3.Vec, curv CurvatureProfile, speed, tangential []float64, maxCentripetal float64) Composition {
	n := len(tangents)
	c := Composition{
		Centripetal:   make([]r3.Vec, n),
		Inertial:      make([]r3.Vec, n),
		SpecificForce: make([]r3.Vec, n),
	}
	capped := make([]bool, n)
	parallelFor(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var ac r3.Vec
			if curv.Curved[i] {
				mag, hit := CentripetalMagnitude(speed[i], curv.Radius[i], maxCentripetal)
				ac = r3.Scale(mag, curv.Normal[i])
				capped[i] = hit
			}
			inertial := r3.Add(r3.Scale(tangential[i], tangents[i]), ac)
			c.Centripetal[i] = ac
			c.Inertial[i] = inertial
			c.SpecificForce[i] = r3.Sub(inertial, GravityVector)
		}
	})
	for _, hit := range capped {
		if hit {
			c.Capped++
		}
	}
	return c
}

// neutralSpecificForce is the reading of a sensor at rest: +1 g up.
var neutralSpecificForce = r3.Vec{Z: units.Gravity}

// sanitizeSpecificForce replaces non-finite vectors with the at-rest reading
// and returns how many were replaced.
func sanitizeSpecificForce(f []r3.Vec) int {
	replaced := 0
	for i, v := range f {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) ||
			math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) || math.IsInf(v.Z, 0) {
			f[i] = neutralSpecificForce
			replaced++
		}
	}
	return replaced
}
