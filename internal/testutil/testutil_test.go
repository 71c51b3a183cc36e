package testutil

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	t.Parallel()
	AssertError(t, errors.New("test error"))
}

func TestAssertInRange(t *testing.T) {
	t.Parallel()
	AssertInRange(t, "ok", []float64{-1, 0, 1}, -1, 1)
	AssertInRange(t, "empty", nil, 0, 0)
}

func TestResampleSpacing(t *testing.T) {
	t.Parallel()
	dense := make([]r3.Vec, 1001)
	for i := range dense {
		dense[i] = r3.Vec{X: float64(i) * 0.01}
	}
	p := Resample(dense, DefaultSpacing)
	if len(p) != 21 {
		t.Fatalf("len = %d, want 21", len(p))
	}
	for i, d := range p.SegmentLengths() {
		if math.Abs(d-DefaultSpacing) > 1e-9 {
			t.Errorf("segment %d length %f, want %f", i, d, DefaultSpacing)
		}
	}
}

func TestLiftDropLoopLandmarks(t *testing.T) {
	t.Parallel()
	sc := LiftDropLoop(25)
	p := sc.Track

	if got := p[0].Z; got != 30 {
		t.Errorf("ride starts at z=%f, want 30", got)
	}
	if z := p[sc.LoopStart].Z; math.Abs(z) > 1e-6 {
		t.Errorf("loop start z=%f, want 0", z)
	}
	if z := p[sc.LoopTop].Z; math.Abs(z-25) > 0.05 {
		t.Errorf("loop top z=%f, want 25", z)
	}
	for i, d := range p.SegmentLengths() {
		if d < 0.2 || d > 0.8 {
			t.Fatalf("segment %d length %f is not roughly %f", i, d, DefaultSpacing)
		}
	}
	for i, v := range p {
		if v.Y != 0 {
			t.Fatalf("point %d has lateral offset %f", i, v.Y)
		}
	}
}

func TestHorizontalCircle(t *testing.T) {
	t.Parallel()
	p := HorizontalCircle(20, math.Pi, 3)
	center := r3.Vec{Y: 20, Z: 3}
	for i, v := range p {
		if d := r3.Norm(r3.Sub(v, center)); math.Abs(d-20) > 1e-9 {
			t.Fatalf("point %d at distance %f from center", i, d)
		}
	}
	// Travel starts along +X.
	if d := r3.Sub(p[1], p[0]); d.X <= 0 || math.Abs(d.Y) > d.X {
		t.Errorf("initial direction %v, want +X", d)
	}
}
