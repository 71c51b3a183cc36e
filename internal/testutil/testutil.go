// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability. The track builders
// produce evenly spaced centerlines in the engine's axis convention
// (X forward, Y lateral, Z up).
package testutil

import (
	"math"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInRange fails the test if any value lies outside [lo, hi] or is not
// finite. name identifies the series in the failure message.
func AssertInRange(t *testing.T, name string, values []float64, lo, hi float64) {
	t.Helper()
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
			t.Fatalf("%s[%d] = %v, want within [%v, %v]", name, i, v, lo, hi)
		}
	}
}
