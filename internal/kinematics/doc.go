// Package kinematics turns a track centerline into a synthetic rider-frame
// accelerometer signal.
//
// The pipeline runs leaves first:
//
//	SmoothPolyline -> Tangents -> Curvature -> SolveSpeed -> Compose -> Project -> Condition
//
// Each stage is a pure function over slices and can be tested on its own.
// Engine.Synthesize chains them, validates input, substitutes neutral values
// for any non-finite intermediate result, and returns both the conditioned
// AccelerometerSample table and the raw MotionProfile.
//
// The only process-wide state is the memoized integrator kernel choice made by
// DefaultIntegrator. It is established once, read-only afterwards, and callers
// that want to avoid it construct an Engine with an explicit Integrator.
//
// Axis convention: X forward, Y lateral, Z vertical (up). Distances are meters,
// speeds m/s, accelerations m/s² until the rider-frame projection, which
// reports g-units.
package kinematics
