package units

import "strings"

// Speed unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidSpeedUnits contains all valid speed unit values
var ValidSpeedUnits = []string{MPS, MPH, KMPH, KPH}

// IsValidSpeed checks if the given unit is in the list of valid speed units
func IsValidSpeed(unit string) bool {
	for _, u := range ValidSpeedUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// ValidSpeedUnitsString returns a comma-separated list for error messages
func ValidSpeedUnitsString() string {
	return strings.Join(ValidSpeedUnits, ", ")
}

// ConvertSpeed converts a speed from meters per second to the target units.
// The engine works in m/s throughout; conversion happens only for display.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPS * 2.2369362920544
	case KMPH, KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}
