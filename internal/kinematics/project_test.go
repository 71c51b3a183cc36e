package kinematics

import (
	"testing"

	"github.com/banshee-data/coaster.report/internal/units"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestProject(t *testing.T) {
	t.Parallel()

	g := units.Gravity
	tests := []struct {
		name     string
		tangent  r3.Vec
		specific r3.Vec
		lat      float64
		vert     float64
		long     float64
	}{
		{"resting on level track", r3.Vec{X: 1}, r3.Vec{Z: g}, 0, 1, 0},
		{"braking", r3.Vec{X: 1}, r3.Vec{X: -0.5 * g, Z: g}, 0, 1, -0.5},
		{"left turn", r3.Vec{X: 1}, r3.Vec{Y: 0.8 * g, Z: g}, 0.8, 1, 0},
		{"heading -X flips lateral", r3.Vec{X: -1}, r3.Vec{Y: 0.8 * g, Z: g}, -0.8, 1, 0},
		{"vertical climb", r3.Vec{Z: 1}, r3.Vec{Z: 2 * g}, 0, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rf := Project([]r3.Vec{tt.tangent}, []r3.Vec{tt.specific})
			assert.InDelta(t, tt.lat, rf.Lateral[0], 1e-12)
			assert.InDelta(t, tt.vert, rf.Vertical[0], 1e-12)
			assert.InDelta(t, tt.long, rf.Longitudinal[0], 1e-12)
		})
	}
}

func TestLateralAxisIsHorizontalAndPerpendicular(t *testing.T) {
	t.Parallel()

	for _, tan := range []r3.Vec{
		r3.Unit(r3.Vec{X: 1, Y: 1, Z: 1}),
		r3.Unit(r3.Vec{X: -3, Y: 0.2, Z: -1}),
		{Y: -1},
	} {
		ax := LateralAxis(tan)
		assert.InDelta(t, 1.0, r3.Norm(ax), 1e-12)
		assert.InDelta(t, 0.0, ax.Z, 1e-12)
		assert.InDelta(t, 0.0, r3.Dot(ax, tan), 1e-12)
	}
}
