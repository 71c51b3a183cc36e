// Package recording reads and writes the CSV files that sit at the edges of
// the pipeline: track centerlines going in and accelerometer tables coming
// out, plus external accelerometer recordings mapped through an explicit
// column schema.
package recording
