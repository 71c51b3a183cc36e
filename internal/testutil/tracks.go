package testutil

import (
	"math"

	"github.com/banshee-data/coaster.report/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSpacing is the distance between consecutive builder points, meters.
const DefaultSpacing = 0.5

// Straight returns n points spaced DefaultSpacing apart along dir from start.
func Straight(start, dir r3.Vec, n int) geom.Polyline {
	u := r3.Unit(dir)
	p := make(geom.Polyline, n)
	for i := range p {
		p[i] = r3.Add(start, r3.Scale(float64(i)*DefaultSpacing, u))
	}
	return p
}

// FlatStraight is a level straight along +X at height z.
func FlatStraight(n int, z float64) geom.Polyline {
	return Straight(r3.Vec{Z: z}, r3.Vec{X: 1}, n)
}

// HorizontalCircle returns a counter-clockwise (seen from above) arc of the
// given radius at height z, sweeping sweepRad radians from the -Y side of the
// center so travel starts along +X.
func HorizontalCircle(radius, sweepRad, z float64) geom.Polyline {
	n := int(radius*sweepRad/DefaultSpacing) + 1
	p := make(geom.Polyline, n)
	for i := range p {
		th := -math.Pi/2 + float64(i)*DefaultSpacing/radius
		p[i] = r3.Vec{X: radius * math.Cos(th), Y: radius + radius*math.Sin(th), Z: z}
	}
	return p
}

// Scenario is a track together with the sample indices of its landmarks.
type Scenario struct {
	Track     geom.Polyline
	DropStart int
	LoopStart int
	LoopTop   int
	LoopEnd   int
}

// LiftDropLoop builds the reference ride: a 40 m level run at the lift crest
// (30 m up), a 40 m cosine drop losing 30 m, a 10 m straight, a vertical
// loop of the given diameter in the X-Z plane, and a 20 m exit straight.
// Energy conservation measures height from the first sample, so the ride
// starts at the release point on top of the lift.
func LiftDropLoop(loopDiameter float64) Scenario {
	const (
		crest     = 30.0
		liftLen   = 40.0
		dropLen   = 40.0
		runoutLen = 10.0
		exitLen   = 20.0
	)
	r := loopDiameter / 2

	dense := func(n int, f func(s float64) r3.Vec) []r3.Vec {
		out := make([]r3.Vec, n+1)
		for i := range out {
			out[i] = f(float64(i) / float64(n))
		}
		return out
	}

	var raw []r3.Vec
	raw = append(raw, dense(400, func(s float64) r3.Vec {
		return r3.Vec{X: liftLen * s, Z: crest}
	})...)
	raw = append(raw, dense(4000, func(s float64) r3.Vec {
		return r3.Vec{X: liftLen + dropLen*s, Z: crest - crest*(1-math.Cos(math.Pi*s))/2}
	})[1:]...)
	x0 := liftLen + dropLen + runoutLen
	raw = append(raw, dense(100, func(s float64) r3.Vec {
		return r3.Vec{X: liftLen + dropLen + runoutLen*s}
	})[1:]...)

	var sc Scenario
	track := Resample(raw, DefaultSpacing)
	sc.DropStart = nearestIndex(track, r3.Vec{X: liftLen, Z: crest})
	sc.LoopStart = len(track) - 1

	loop := make(geom.Polyline, 0)
	loopN := int(2 * math.Pi * r / DefaultSpacing)
	for i := 1; i <= loopN; i++ {
		th := -math.Pi/2 + 2*math.Pi*float64(i)/float64(loopN)
		loop = append(loop, r3.Vec{X: x0 + r*math.Cos(th), Z: r + r*math.Sin(th)})
	}
	sc.LoopTop = sc.LoopStart + loopN/2
	sc.LoopEnd = sc.LoopStart + loopN
	track = append(track, loop...)

	exit := Straight(r3.Vec{X: x0}, r3.Vec{X: 1}, int(exitLen/DefaultSpacing)+1)
	track = append(track, exit[1:]...)

	sc.Track = track
	return sc
}

// Resample walks a dense polyline and emits points every spacing meters of
// arc length, always keeping the first and last point.
func Resample(dense []r3.Vec, spacing float64) geom.Polyline {
	if len(dense) == 0 {
		return nil
	}
	out := geom.Polyline{dense[0]}
	carried := 0.0
	for i := 1; i < len(dense); i++ {
		a, b := dense[i-1], dense[i]
		seg := r3.Norm(r3.Sub(b, a))
		for carried+seg >= spacing {
			f := (spacing - carried) / seg
			a = r3.Add(a, r3.Scale(f, r3.Sub(b, a)))
			out = append(out, a)
			seg = r3.Norm(r3.Sub(b, a))
			carried = 0
		}
		carried += seg
	}
	if last := dense[len(dense)-1]; r3.Norm(r3.Sub(last, out[len(out)-1])) > spacing/2 {
		out = append(out, last)
	}
	return out
}

func nearestIndex(p geom.Polyline, target r3.Vec) int {
	best, bestD := 0, math.Inf(1)
	for i, v := range p {
		if d := r3.Norm(r3.Sub(v, target)); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}
