// Package geom holds the track centerline representation handed to the
// kinematics engine by a track producer.
//
// A Polyline is an ordered sequence of 3-D points in meters using the
// forward / lateral / vertical axis convention (X / Y / Z). Order is
// physically meaningful: it is the distance along the ride.
package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MinPoints is the smallest polyline the engine accepts.
const MinPoints = 3

// Validation errors. Each wrapped error names the violated invariant.
var (
	ErrTooFewPoints   = errors.New("fewer than 3 points")
	ErrWrongDimension = errors.New("point is not 3-dimensional")
	ErrNonFiniteInput = errors.New("point has a non-finite coordinate")
)

// Up is the global vertical axis.
var Up = r3.Vec{Z: 1}

// Axis selects one coordinate of a point.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// Polyline is an ordered track centerline.
type Polyline []r3.Vec

// FromRows builds a Polyline from an Nx3 array, rejecting rows that are not
// exactly three values long.
func FromRows(rows [][]float64) (Polyline, error) {
	p := make(Polyline, len(rows))
	for i, row := range rows {
		if len(row) != 3 {
			return nil, fmt.Errorf("row %d has %d values: %w", i, len(row), ErrWrongDimension)
		}
		p[i] = r3.Vec{X: row[0], Y: row[1], Z: row[2]}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// FromComponents builds a Polyline from parallel coordinate slices.
func FromComponents(x, y, z []float64) (Polyline, error) {
	if len(x) != len(y) || len(x) != len(z) {
		return nil, fmt.Errorf("component lengths %d/%d/%d differ: %w", len(x), len(y), len(z), ErrWrongDimension)
	}
	p := make(Polyline, len(x))
	for i := range x {
		p[i] = r3.Vec{X: x[i], Y: y[i], Z: z[i]}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the structural invariants the engine relies on.
func (p Polyline) Validate() error {
	if len(p) < MinPoints {
		return fmt.Errorf("polyline has %d points: %w", len(p), ErrTooFewPoints)
	}
	return nil
}

// ValidateFinite is Validate plus a check that every coordinate is finite.
// Callers at an I/O boundary use it to reject bad files outright instead of
// relying on the engine's fallback substitution.
func (p Polyline) ValidateFinite() error {
	if err := p.Validate(); err != nil {
		return err
	}
	for i, v := range p {
		if !IsFinite(v) {
			return fmt.Errorf("point %d (%v): %w", i, v, ErrNonFiniteInput)
		}
	}
	return nil
}

// FillNonFinite returns a copy of p in which every point with a non-finite
// coordinate is replaced by linear interpolation (by index) between its
// nearest finite neighbours, or by the nearest finite point at either end.
// It reports how many points were replaced. A polyline with no finite point
// at all cannot be repaired.
func (p Polyline) FillNonFinite() (Polyline, int, error) {
	out := p.Clone()
	prev := -1
	replaced := 0
	for i := 0; i <= len(out); i++ {
		if i < len(out) && !IsFinite(out[i]) {
			continue
		}
		// out[prev+1:i] is a run of bad points.
		for j := prev + 1; j < i; j++ {
			switch {
			case prev < 0 && i == len(out):
				return nil, 0, fmt.Errorf("all %d points: %w", len(p), ErrNonFiniteInput)
			case prev < 0:
				out[j] = out[i]
			case i == len(out):
				out[j] = out[prev]
			default:
				f := float64(j-prev) / float64(i-prev)
				out[j] = r3.Add(out[prev], r3.Scale(f, r3.Sub(out[i], out[prev])))
			}
			replaced++
		}
		prev = i
	}
	return out, replaced, nil
}

// Clone returns a copy that shares no memory with p.
func (p Polyline) Clone() Polyline {
	out := make(Polyline, len(p))
	copy(out, p)
	return out
}

// Component extracts one coordinate of every point.
func (p Polyline) Component(axis Axis) []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		switch axis {
		case X:
			out[i] = v.X
		case Y:
			out[i] = v.Y
		default:
			out[i] = v.Z
		}
	}
	return out
}

// SegmentLengths returns the n-1 distances between consecutive points.
func (p Polyline) SegmentLengths() []float64 {
	if len(p) < 2 {
		return nil
	}
	out := make([]float64, len(p)-1)
	for i := 1; i < len(p); i++ {
		out[i-1] = r3.Norm(r3.Sub(p[i], p[i-1]))
	}
	return out
}

// Length is the total arc length along the polyline.
func (p Polyline) Length() float64 {
	var total float64
	for _, d := range p.SegmentLengths() {
		total += d
	}
	return total
}

// HeightRange returns the lowest and highest vertical coordinate.
func (p Polyline) HeightRange() (lo, hi float64) {
	if len(p) == 0 {
		return 0, 0
	}
	lo, hi = p[0].Z, p[0].Z
	for _, v := range p[1:] {
		lo = math.Min(lo, v.Z)
		hi = math.Max(hi, v.Z)
	}
	return lo, hi
}

// IsFinite reports whether all three components of v are finite.
func IsFinite(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
