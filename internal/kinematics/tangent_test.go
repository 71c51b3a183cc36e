package kinematics

import (
	"math"
	"testing"

	"github.com/banshee-data/coaster.report/internal/geom"
	"github.com/banshee-data/coaster.report/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestTangentsUnitNorm(t *testing.T) {
	t.Parallel()

	sc := testutil.LiftDropLoop(25)
	tangents, fallbacks := Tangents(SmoothPolyline(sc.Track, 2))
	require.Len(t, tangents, len(sc.Track))
	assert.Zero(t, fallbacks)
	for i, tv := range tangents {
		assert.InDelta(t, 1.0, r3.Norm(tv), 1e-12, "tangent %d", i)
	}
}

func TestTangentsStraight(t *testing.T) {
	t.Parallel()

	dir := r3.Unit(r3.Vec{X: 3, Y: 4, Z: -1})
	p := testutil.Straight(r3.Vec{Z: 10}, dir, 20)
	tangents, _ := Tangents(p)
	for i, tv := range tangents {
		assert.InDelta(t, 0, r3.Norm(r3.Sub(tv, dir)), 1e-12, "tangent %d", i)
	}
}

func TestTangentsEndpointsOneSided(t *testing.T) {
	t.Parallel()

	// A corner at index 2: the endpoints must only see their own segment.
	p := geom.Polyline{{X: 0}, {X: 1}, {X: 2}, {X: 2, Y: 1}, {X: 2, Y: 2}}
	tangents, _ := Tangents(p)
	assert.Equal(t, r3.Vec{X: 1}, tangents[0])
	assert.Equal(t, r3.Vec{Y: 1}, tangents[4])
	// Interior sample straddles the corner.
	assert.InDelta(t, tangents[2].X, tangents[2].Y, 1e-12)
}

func TestTangentsDegenerate(t *testing.T) {
	t.Parallel()

	t.Run("duplicate points", func(t *testing.T) {
		p := geom.Polyline{{X: 1}, {X: 1}, {X: 1}, {X: 1}}
		tangents, fallbacks := Tangents(p)
		assert.Equal(t, 4, fallbacks)
		for _, tv := range tangents {
			assert.Equal(t, DefaultForward, tv)
		}
	})

	t.Run("non-finite neighbourhood", func(t *testing.T) {
		p := testutil.FlatStraight(10, 0)
		p[5].Z = math.NaN()
		tangents, fallbacks := Tangents(p)
		assert.Positive(t, fallbacks)
		for i, tv := range tangents {
			assert.True(t, geom.IsFinite(tv), "tangent %d not finite", i)
			assert.InDelta(t, 1.0, r3.Norm(tv), 1e-12)
		}
	})
}

func TestTangentsLargeTrackParallel(t *testing.T) {
	t.Parallel()

	// Above parallelThreshold the chunked path must match the inline path.
	p := testutil.HorizontalCircle(400, 2*math.Pi, 5)
	require.Greater(t, len(p), parallelThreshold)
	got, _ := Tangents(p)
	for i := range p {
		a, b := tangentStencil(i, len(p))
		want := r3.Unit(r3.Sub(p[b], p[a]))
		assert.Equal(t, want, got[i])
	}
}
