package kinematics

import (
	"github.com/banshee-data/coaster.report/internal/geom"
	"github.com/banshee-data/coaster.report/internal/units"
	"gonum.org/v1/gonum/spatial/r3"
)

// RiderFrame holds specific force projected onto the rider axes, in g.
type RiderFrame struct {
	Lateral      []float64
	Vertical     []float64
	Longitudinal []float64
}

// LateralAxis returns unit(Up × t). For a vertical tangent the cross product
// vanishes and the global Y axis is used instead.
func LateralAxis(t r3.Vec) r3.Vec {
	return horizontalNormal(t)
}

// Project resolves each specific-force vector onto the rider axes:
// longitudinal along the tangent, vertical along global up, lateral along
// Up × tangent. Values are divided by gravity to give g-units.
func Project(tangents, specific []r3.Vec) RiderFrame {
	n := len(tangents)
	rf := RiderFrame{
		Lateral:      make([]float64, n),
		Vertical:     make([]float64, n),
		Longitudinal: make([]float64, n),
	}
	parallelFor(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			f, t := specific[i], tangents[i]
			rf.Longitudinal[i] = units.ToG(r3.Dot(f, t))
			rf.Vertical[i] = units.ToG(r3.Dot(f, geom.Up))
			rf.Lateral[i] = units.ToG(r3.Dot(f, LateralAxis(t)))
		}
	})
	return rf
}
