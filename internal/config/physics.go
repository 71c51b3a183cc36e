package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical physics defaults file.
const DefaultConfigPath = "config/physics.defaults.json"

// Speed model names accepted by the mode field.
const (
	ModeEnergy   = "energy"
	ModeDynamics = "dynamics"
)

// Default values returned by the Get* accessors when a field is unset.
const (
	DefaultMode            = ModeEnergy
	DefaultDT              = 0.02
	DefaultInitialSpeed    = 3.0
	DefaultEfficiency      = 0.90
	DefaultMassKg          = 6000.0
	DefaultAirDensity      = 1.3
	DefaultDragCoefficient = 0.6
	DefaultFrontalAreaM2   = 4.0
	DefaultRollingFriction = 0.015
	DefaultGeometrySigma   = 2.0
	DefaultSignalSigma     = 2.5
	DefaultMinRadius       = 5.0
	DefaultMaxRadius       = 1000.0
	DefaultMaxCentripetal  = 60.0
	DefaultClipG           = 10.0
)

// PhysicsConfig holds the physical parameters and numeric tuning for one
// accelerometer synthesis run. Every field is optional; fields left nil fall
// back to the defaults above, so partial files are safe.
type PhysicsConfig struct {
	// Speed model
	Mode         *string  `json:"mode,omitempty" yaml:"mode,omitempty"` // "energy" or "dynamics"
	DT           *float64 `json:"dt,omitempty" yaml:"dt,omitempty"`     // seconds per sample
	InitialSpeed *float64 `json:"initial_speed,omitempty" yaml:"initial_speed,omitempty"`
	Efficiency   *float64 `json:"efficiency,omitempty" yaml:"efficiency,omitempty"` // energy mode only

	// Vehicle (dynamics mode only)
	MassKg          *float64 `json:"mass,omitempty" yaml:"mass,omitempty"`
	AirDensity      *float64 `json:"air_density,omitempty" yaml:"air_density,omitempty"`
	DragCoefficient *float64 `json:"drag_coefficient,omitempty" yaml:"drag_coefficient,omitempty"`
	FrontalAreaM2   *float64 `json:"frontal_area,omitempty" yaml:"frontal_area,omitempty"`
	RollingFriction *float64 `json:"rolling_friction,omitempty" yaml:"rolling_friction,omitempty"`

	// Numeric tuning
	GeometrySigma  *float64 `json:"geometry_sigma,omitempty" yaml:"geometry_sigma,omitempty"`
	SignalSigma    *float64 `json:"signal_sigma,omitempty" yaml:"signal_sigma,omitempty"`
	MinRadius      *float64 `json:"min_radius,omitempty" yaml:"min_radius,omitempty"`
	MaxRadius      *float64 `json:"max_radius,omitempty" yaml:"max_radius,omitempty"`
	MaxCentripetal *float64 `json:"max_centripetal,omitempty" yaml:"max_centripetal,omitempty"`
	ClipG          *float64 `json:"clip_g,omitempty" yaml:"clip_g,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// EmptyPhysicsConfig returns a PhysicsConfig with all fields set to nil.
func EmptyPhysicsConfig() *PhysicsConfig {
	return &PhysicsConfig{}
}

// DefaultPhysicsConfig returns a PhysicsConfig with every field populated
// from the package defaults.
func DefaultPhysicsConfig() *PhysicsConfig {
	return &PhysicsConfig{
		Mode:            ptrString(DefaultMode),
		DT:              ptrFloat64(DefaultDT),
		InitialSpeed:    ptrFloat64(DefaultInitialSpeed),
		Efficiency:      ptrFloat64(DefaultEfficiency),
		MassKg:          ptrFloat64(DefaultMassKg),
		AirDensity:      ptrFloat64(DefaultAirDensity),
		DragCoefficient: ptrFloat64(DefaultDragCoefficient),
		FrontalAreaM2:   ptrFloat64(DefaultFrontalAreaM2),
		RollingFriction: ptrFloat64(DefaultRollingFriction),
		GeometrySigma:   ptrFloat64(DefaultGeometrySigma),
		SignalSigma:     ptrFloat64(DefaultSignalSigma),
		MinRadius:       ptrFloat64(DefaultMinRadius),
		MaxRadius:       ptrFloat64(DefaultMaxRadius),
		MaxCentripetal:  ptrFloat64(DefaultMaxCentripetal),
		ClipG:           ptrFloat64(DefaultClipG),
	}
}

// LoadPhysicsConfig loads a PhysicsConfig from a JSON or YAML file.
// The extension selects the decoder (.json, .yaml, .yml) and the file must be
// under the max file size.
func LoadPhysicsConfig(path string) (*PhysicsConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPhysicsConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *PhysicsConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/coaster/ and deeper
	}
	for _, path := range candidates {
		if cfg, err := LoadPhysicsConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the set values are physically meaningful.
func (c *PhysicsConfig) Validate() error {
	if c.Mode != nil && *c.Mode != ModeEnergy && *c.Mode != ModeDynamics {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeEnergy, ModeDynamics, *c.Mode)
	}
	positive := []struct {
		name string
		v    *float64
	}{
		{"dt", c.DT},
		{"mass", c.MassKg},
		{"geometry_sigma", c.GeometrySigma},
		{"signal_sigma", c.SignalSigma},
		{"min_radius", c.MinRadius},
		{"max_radius", c.MaxRadius},
		{"max_centripetal", c.MaxCentripetal},
		{"clip_g", c.ClipG},
	}
	for _, f := range positive {
		if f.v != nil && !(*f.v > 0) {
			return fmt.Errorf("%s must be positive, got %f", f.name, *f.v)
		}
	}
	nonNegative := []struct {
		name string
		v    *float64
	}{
		{"initial_speed", c.InitialSpeed},
		{"air_density", c.AirDensity},
		{"drag_coefficient", c.DragCoefficient},
		{"frontal_area", c.FrontalAreaM2},
		{"rolling_friction", c.RollingFriction},
	}
	for _, f := range nonNegative {
		if f.v != nil && !(*f.v >= 0) {
			return fmt.Errorf("%s must be non-negative, got %f", f.name, *f.v)
		}
	}
	if c.Efficiency != nil && (*c.Efficiency <= 0 || *c.Efficiency > 1) {
		return fmt.Errorf("efficiency must be in (0, 1], got %f", *c.Efficiency)
	}
	if c.GetMinRadius() >= c.GetMaxRadius() {
		return fmt.Errorf("min_radius (%f) must be below max_radius (%f)", c.GetMinRadius(), c.GetMaxRadius())
	}
	return nil
}

func getFloat(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// GetMode returns the speed model name or the default.
func (c *PhysicsConfig) GetMode() string {
	if c.Mode == nil || *c.Mode == "" {
		return DefaultMode
	}
	return *c.Mode
}

// GetDT returns the sampling interval in seconds.
func (c *PhysicsConfig) GetDT() float64 { return getFloat(c.DT, DefaultDT) }

// GetInitialSpeed returns the launch speed in m/s.
func (c *PhysicsConfig) GetInitialSpeed() float64 {
	return getFloat(c.InitialSpeed, DefaultInitialSpeed)
}

// GetEfficiency returns the energy-conservation efficiency factor.
func (c *PhysicsConfig) GetEfficiency() float64 { return getFloat(c.Efficiency, DefaultEfficiency) }

// GetMassKg returns the vehicle mass.
func (c *PhysicsConfig) GetMassKg() float64 { return getFloat(c.MassKg, DefaultMassKg) }

// GetAirDensity returns the air density in kg/m³.
func (c *PhysicsConfig) GetAirDensity() float64 { return getFloat(c.AirDensity, DefaultAirDensity) }

// GetDragCoefficient returns the aerodynamic drag coefficient.
func (c *PhysicsConfig) GetDragCoefficient() float64 {
	return getFloat(c.DragCoefficient, DefaultDragCoefficient)
}

// GetFrontalAreaM2 returns the vehicle frontal area.
func (c *PhysicsConfig) GetFrontalAreaM2() float64 {
	return getFloat(c.FrontalAreaM2, DefaultFrontalAreaM2)
}

// GetRollingFriction returns the rolling-friction coefficient.
func (c *PhysicsConfig) GetRollingFriction() float64 {
	return getFloat(c.RollingFriction, DefaultRollingFriction)
}

// GetGeometrySigma returns the track smoothing kernel spread in samples.
func (c *PhysicsConfig) GetGeometrySigma() float64 {
	return getFloat(c.GeometrySigma, DefaultGeometrySigma)
}

// GetSignalSigma returns the output smoothing kernel spread in samples.
func (c *PhysicsConfig) GetSignalSigma() float64 { return getFloat(c.SignalSigma, DefaultSignalSigma) }

// GetMinRadius returns the smallest reported curvature radius in meters.
func (c *PhysicsConfig) GetMinRadius() float64 { return getFloat(c.MinRadius, DefaultMinRadius) }

// GetMaxRadius returns the radius treated as effectively straight.
func (c *PhysicsConfig) GetMaxRadius() float64 { return getFloat(c.MaxRadius, DefaultMaxRadius) }

// GetMaxCentripetal returns the centripetal acceleration cap in m/s².
func (c *PhysicsConfig) GetMaxCentripetal() float64 {
	return getFloat(c.MaxCentripetal, DefaultMaxCentripetal)
}

// GetClipG returns the symmetric sensor clip range in g.
func (c *PhysicsConfig) GetClipG() float64 { return getFloat(c.ClipG, DefaultClipG) }
