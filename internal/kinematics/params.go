package kinematics

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/coaster.report/internal/config"
)

// ErrInvalidParameter is wrapped by every Parameters validation failure.
var ErrInvalidParameter = errors.New("invalid physical parameter")

// SpeedModel selects how forward speed is derived from the track. The set of
// models is closed: EnergyConservation or DynamicsIntegration.
type SpeedModel interface {
	// Name identifies the model in results and logs.
	Name() string
	validate() error
}

// EnergyConservation derives speed from the height lost since the first
// sample, scaled by a fixed efficiency factor.
type EnergyConservation struct {
	Efficiency float64 // fraction of potential energy converted, (0, 1]
}

// Name implements SpeedModel.
func (EnergyConservation) Name() string { return "energy-conservation" }

func (m EnergyConservation) validate() error {
	if !(m.Efficiency > 0 && m.Efficiency <= 1) {
		return fmt.Errorf("efficiency %f outside (0, 1]: %w", m.Efficiency, ErrInvalidParameter)
	}
	return nil
}

// DynamicsIntegration steps speed forward with gravity, rolling friction and
// quadratic aerodynamic drag.
type DynamicsIntegration struct {
	MassKg          float64
	AirDensity      float64 // kg/m³
	DragCoefficient float64
	FrontalAreaM2   float64
	RollingFriction float64
}

// Name implements SpeedModel.
func (DynamicsIntegration) Name() string { return "dynamics-integration" }

func (m DynamicsIntegration) validate() error {
	if !(m.MassKg > 0) {
		return fmt.Errorf("mass %f must be positive: %w", m.MassKg, ErrInvalidParameter)
	}
	for name, v := range map[string]float64{
		"air density":      m.AirDensity,
		"drag coefficient": m.DragCoefficient,
		"frontal area":     m.FrontalAreaM2,
		"rolling friction": m.RollingFriction,
	} {
		if !(v >= 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%s %f must be finite and non-negative: %w", name, v, ErrInvalidParameter)
		}
	}
	return nil
}

// DragPerMass is the coefficient k in a_drag = k·v².
func (m DynamicsIntegration) DragPerMass() float64 {
	return 0.5 * m.AirDensity * m.DragCoefficient * m.FrontalAreaM2 / m.MassKg
}

// Tuning holds the numeric conditioning knobs shared by both speed models.
type Tuning struct {
	GeometrySigma  float64 // track smoothing kernel spread, samples
	SignalSigma    float64 // output smoothing kernel spread, samples
	MinRadius      float64 // m
	MaxRadius      float64 // m, radii at or above this count as straight
	MaxCentripetal float64 // m/s²
	ClipG          float64 // symmetric output clip, g
}

// DefaultTuning returns the reference conditioning values.
func DefaultTuning() Tuning {
	return Tuning{
		GeometrySigma:  config.DefaultGeometrySigma,
		SignalSigma:    config.DefaultSignalSigma,
		MinRadius:      config.DefaultMinRadius,
		MaxRadius:      config.DefaultMaxRadius,
		MaxCentripetal: config.DefaultMaxCentripetal,
		ClipG:          config.DefaultClipG,
	}
}

// Parameters configures one synthesis run.
type Parameters struct {
	InitialSpeed float64 // m/s at the first sample
	DT           float64 // nominal seconds between samples
	Model        SpeedModel
	Tuning       Tuning
}

// DefaultParameters returns energy-conservation parameters with reference
// defaults.
func DefaultParameters() Parameters {
	return Parameters{
		InitialSpeed: config.DefaultInitialSpeed,
		DT:           config.DefaultDT,
		Model:        EnergyConservation{Efficiency: config.DefaultEfficiency},
		Tuning:       DefaultTuning(),
	}
}

// DefaultDynamics returns the reference vehicle for DynamicsIntegration.
func DefaultDynamics() DynamicsIntegration {
	return DynamicsIntegration{
		MassKg:          config.DefaultMassKg,
		AirDensity:      config.DefaultAirDensity,
		DragCoefficient: config.DefaultDragCoefficient,
		FrontalAreaM2:   config.DefaultFrontalAreaM2,
		RollingFriction: config.DefaultRollingFriction,
	}
}

// ParametersFromConfig builds validated Parameters from a physics config. The
// mode field picks the speed model; vehicle fields are only read for dynamics.
func ParametersFromConfig(cfg *config.PhysicsConfig) (Parameters, error) {
	if cfg == nil {
		cfg = config.EmptyPhysicsConfig()
	}
	if err := cfg.Validate(); err != nil {
		return Parameters{}, fmt.Errorf("%v: %w", err, ErrInvalidParameter)
	}

	p := Parameters{
		InitialSpeed: cfg.GetInitialSpeed(),
		DT:           cfg.GetDT(),
		Tuning: Tuning{
			GeometrySigma:  cfg.GetGeometrySigma(),
			SignalSigma:    cfg.GetSignalSigma(),
			MinRadius:      cfg.GetMinRadius(),
			MaxRadius:      cfg.GetMaxRadius(),
			MaxCentripetal: cfg.GetMaxCentripetal(),
			ClipG:          cfg.GetClipG(),
		},
	}
	switch cfg.GetMode() {
	case config.ModeDynamics:
		p.Model = DynamicsIntegration{
			MassKg:          cfg.GetMassKg(),
			AirDensity:      cfg.GetAirDensity(),
			DragCoefficient: cfg.GetDragCoefficient(),
			FrontalAreaM2:   cfg.GetFrontalAreaM2(),
			RollingFriction: cfg.GetRollingFriction(),
		}
	default:
		p.Model = EnergyConservation{Efficiency: cfg.GetEfficiency()}
	}
	return p, p.Validate()
}

// Validate fails fast on combinations the engine cannot run.
func (p Parameters) Validate() error {
	if p.Model == nil {
		return fmt.Errorf("no speed model selected: %w", ErrInvalidParameter)
	}
	if err := p.Model.validate(); err != nil {
		return err
	}
	if !(p.DT > 0) || math.IsInf(p.DT, 0) {
		return fmt.Errorf("dt %f must be positive: %w", p.DT, ErrInvalidParameter)
	}
	if !(p.InitialSpeed >= 0) || math.IsInf(p.InitialSpeed, 0) {
		return fmt.Errorf("initial speed %f must be non-negative: %w", p.InitialSpeed, ErrInvalidParameter)
	}
	t := p.Tuning
	if !(t.MinRadius > 0) || !(t.MaxRadius > t.MinRadius) {
		return fmt.Errorf("radius window [%f, %f] is empty: %w", t.MinRadius, t.MaxRadius, ErrInvalidParameter)
	}
	if !(t.MaxCentripetal > 0) {
		return fmt.Errorf("centripetal cap %f must be positive: %w", t.MaxCentripetal, ErrInvalidParameter)
	}
	if !(t.ClipG > 0) {
		return fmt.Errorf("clip range %f must be positive: %w", t.ClipG, ErrInvalidParameter)
	}
	if t.GeometrySigma < 0 || t.SignalSigma < 0 {
		return fmt.Errorf("smoothing sigma must be non-negative: %w", ErrInvalidParameter)
	}
	return nil
}
