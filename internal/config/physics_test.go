package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/coaster.report/internal/testutil"
)

func TestDefaultPhysicsConfig(t *testing.T) {
	cfg := DefaultPhysicsConfig()

	if cfg.Mode == nil || *cfg.Mode != ModeEnergy {
		t.Errorf("Expected Mode %q, got %v", ModeEnergy, cfg.Mode)
	}
	if cfg.DT == nil || *cfg.DT != 0.02 {
		t.Errorf("Expected DT 0.02, got %v", cfg.DT)
	}
	if cfg.Efficiency == nil || *cfg.Efficiency != 0.90 {
		t.Errorf("Expected Efficiency 0.90, got %v", cfg.Efficiency)
	}
	testutil.AssertNoError(t, cfg.Validate())
}

func TestGettersFallBackToDefaults(t *testing.T) {
	cfg := EmptyPhysicsConfig()

	if cfg.GetMode() != DefaultMode {
		t.Errorf("GetMode() = %s, want %s", cfg.GetMode(), DefaultMode)
	}
	if cfg.GetDT() != DefaultDT {
		t.Errorf("GetDT() = %f, want %f", cfg.GetDT(), DefaultDT)
	}
	if cfg.GetInitialSpeed() != DefaultInitialSpeed {
		t.Errorf("GetInitialSpeed() = %f, want %f", cfg.GetInitialSpeed(), DefaultInitialSpeed)
	}
	if cfg.GetMassKg() != DefaultMassKg {
		t.Errorf("GetMassKg() = %f, want %f", cfg.GetMassKg(), DefaultMassKg)
	}
	if cfg.GetMinRadius() != 5 || cfg.GetMaxRadius() != 1000 {
		t.Errorf("radius window = [%f, %f], want [5, 1000]", cfg.GetMinRadius(), cfg.GetMaxRadius())
	}
	if cfg.GetMaxCentripetal() != 60 {
		t.Errorf("GetMaxCentripetal() = %f, want 60", cfg.GetMaxCentripetal())
	}
	if cfg.GetClipG() != 10 {
		t.Errorf("GetClipG() = %f, want 10", cfg.GetClipG())
	}
	if cfg.GetGeometrySigma() != 2 || cfg.GetSignalSigma() != 2.5 {
		t.Errorf("sigmas = %f/%f, want 2/2.5", cfg.GetGeometrySigma(), cfg.GetSignalSigma())
	}
}

func TestLoadPhysicsConfigJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "physics.json")

	testJSON := `{
  "mode": "dynamics",
  "dt": 0.01,
  "initial_speed": 5,
  "rolling_friction": 0.01
}`
	testutil.AssertNoError(t, os.WriteFile(configPath, []byte(testJSON), 0644))

	cfg, err := LoadPhysicsConfig(configPath)
	testutil.AssertNoError(t, err)
	if cfg.GetMode() != ModeDynamics {
		t.Errorf("GetMode() = %s, want dynamics", cfg.GetMode())
	}
	if cfg.GetDT() != 0.01 {
		t.Errorf("GetDT() = %f, want 0.01", cfg.GetDT())
	}
	if cfg.GetRollingFriction() != 0.01 {
		t.Errorf("GetRollingFriction() = %f, want 0.01", cfg.GetRollingFriction())
	}
	// Omitted fields keep their defaults.
	if cfg.GetDragCoefficient() != DefaultDragCoefficient {
		t.Errorf("GetDragCoefficient() = %f, want default", cfg.GetDragCoefficient())
	}
}

func TestLoadPhysicsConfigYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "physics.yaml")

	testYAML := "mode: energy\nefficiency: 0.85\nclip_g: 8\n"
	testutil.AssertNoError(t, os.WriteFile(configPath, []byte(testYAML), 0644))

	cfg, err := LoadPhysicsConfig(configPath)
	testutil.AssertNoError(t, err)
	if cfg.GetEfficiency() != 0.85 {
		t.Errorf("GetEfficiency() = %f, want 0.85", cfg.GetEfficiency())
	}
	if cfg.GetClipG() != 8 {
		t.Errorf("GetClipG() = %f, want 8", cfg.GetClipG())
	}
}

func TestLoadPhysicsConfigErrors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{"missing file", "/nonexistent/path/physics.json", "failed to stat"},
		{"wrong extension", write("physics.toml", "dt = 1"), "extension"},
		{"invalid JSON", write("bad.json", `{"dt": "fast"`), "failed to parse config JSON"},
		{"invalid YAML", write("bad.yaml", "dt: [1, 2"), "failed to parse config YAML"},
		{"invalid mode", write("mode.json", `{"mode": "teleport"}`), "mode must be"},
		{"negative dt", write("dt.json", `{"dt": -0.02}`), "dt must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPhysicsConfig(tt.path)
			testutil.AssertError(t, err)
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *PhysicsConfig
		wantErr bool
	}{
		{"valid config", DefaultPhysicsConfig(), false},
		{"empty config is valid", &PhysicsConfig{}, false},
		{"zero efficiency", &PhysicsConfig{Efficiency: ptrFloat64(0)}, true},
		{"efficiency above one", &PhysicsConfig{Efficiency: ptrFloat64(1.2)}, true},
		{"negative initial speed", &PhysicsConfig{InitialSpeed: ptrFloat64(-1)}, true},
		{"zero initial speed is allowed", &PhysicsConfig{InitialSpeed: ptrFloat64(0)}, false},
		{"negative friction", &PhysicsConfig{RollingFriction: ptrFloat64(-0.1)}, true},
		{"radius window inverted", &PhysicsConfig{MinRadius: ptrFloat64(50), MaxRadius: ptrFloat64(20)}, true},
		{"zero clip", &PhysicsConfig{ClipG: ptrFloat64(0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaultConfigFile(t *testing.T) {
	cfg, err := LoadPhysicsConfig("../../config/physics.defaults.json")
	testutil.AssertNoError(t, err)
	if cfg.GetEfficiency() != DefaultEfficiency {
		t.Errorf("Expected %f, got %f", DefaultEfficiency, cfg.GetEfficiency())
	}
	if cfg.GetMode() != DefaultMode {
		t.Errorf("Expected %s, got %s", DefaultMode, cfg.GetMode())
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg.GetDT() != DefaultDT {
		t.Errorf("GetDT() = %f, want %f", cfg.GetDT(), DefaultDT)
	}
}
