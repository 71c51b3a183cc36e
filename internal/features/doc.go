// Package features turns a synthetic accelerometer recording into the inputs
// a ride rater consumes.
//
// Responsibilities: a fixed-order summary vector of force statistics plus
// track metadata, and a fixed-length sequence window for models that read
// the raw signal.
//
// Dependency rule: features may depend on kinematics and geom. No scoring,
// storage or rendering code is allowed in this package.
package features
