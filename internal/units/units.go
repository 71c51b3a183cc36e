// Package units provides shared physical constants and unit conversions for
// accelerations (g-units) and speeds.
package units

// Gravity is the gravitational acceleration (m/s²) used both by the physics
// models and for converting specific force into g-units.
const Gravity = 9.81

// Acceleration unit names accepted by recording schemas and the CLI.
const (
	G    = "g"
	MPS2 = "mps2"
)

// ValidAccelUnits contains all valid acceleration unit values
var ValidAccelUnits = []string{G, MPS2}

// IsValidAccel reports whether unit names a supported acceleration unit.
func IsValidAccel(unit string) bool {
	for _, u := range ValidAccelUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// ToG converts an acceleration in m/s² into g-units.
func ToG(mps2 float64) float64 {
	return mps2 / Gravity
}

// FromG converts an acceleration in g-units into m/s².
func FromG(g float64) float64 {
	return g * Gravity
}

// AccelToG converts a value expressed in unit into g-units. Unknown units are
// assumed to already be in g.
func AccelToG(value float64, unit string) float64 {
	if unit == MPS2 {
		return ToG(value)
	}
	return value
}
