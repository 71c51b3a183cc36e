package kinematics

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the sample count below which per-sample stages run
// inline. Goroutine fan-out costs more than it saves on short tracks.
const parallelThreshold = 4096

// parallelFor calls fn over disjoint [lo, hi) chunks covering [0, n). fn must
// only write to indices inside its chunk.
func parallelFor(n int, fn func(lo, hi int)) {
	if n < parallelThreshold {
		fn(0, n)
		return
	}
	workers := runtime.GOMAXPROCS(0)
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
