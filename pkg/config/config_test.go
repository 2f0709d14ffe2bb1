package config

import (
	"strings"
	"testing"
)

// TestLoadBytes_Defaults tests that an empty document becomes a runnable
// configuration.
func TestLoadBytes_Defaults(t *testing.T) {
	cfg, err := LoadBytes([]byte("{}"))
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
	if cfg.Simulation.StepLength != 1.0 {
		t.Errorf("Simulation.StepLength = %g, want 1.0", cfg.Simulation.StepLength)
	}
	if cfg.Simulation.Spawn.Vehicles != 100 {
		t.Errorf("Spawn.Vehicles = %d, want 100", cfg.Simulation.Spawn.Vehicles)
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics must be disabled by default")
	}
	if cfg.Tracing.Enabled {
		t.Error("tracing must be disabled by default")
	}
}

// TestLoadBytes_Full tests a complete document.
func TestLoadBytes_Full(t *testing.T) {
	src := `
logging:
  level: debug
  format: console
metrics:
  enabled: true
  listen: ":9100"
rules:
  path: rules.yaml
  watch: true
simulation:
  steps: 500
  step_length: 0.5
  spawn:
    vehicles: 250
    truck_share: 0.4
    speed_min: 10
    speed_max: 60
    road_length: 2500
    lanes: 2
results:
  enabled: true
  db_path: run.db
profiles:
  - name: rush-hour
    schedule: "0 7 * * 1-5"
    rules_path: rules-rush.yaml
`
	cfg, err := LoadBytes([]byte(src))
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Listen != ":9100" {
		t.Errorf("Metrics = %+v, want enabled on :9100", cfg.Metrics)
	}
	if cfg.Rules.Path != "rules.yaml" || !cfg.Rules.Watch {
		t.Errorf("Rules = %+v, want rules.yaml watched", cfg.Rules)
	}
	if cfg.Simulation.Steps != 500 || cfg.Simulation.StepLength != 0.5 {
		t.Errorf("Simulation = %+v", cfg.Simulation)
	}
	if cfg.Simulation.Spawn.TruckShare != 0.4 {
		t.Errorf("TruckShare = %g, want 0.4", cfg.Simulation.Spawn.TruckShare)
	}
	if len(cfg.Profiles) != 1 || cfg.Profiles[0].Name != "rush-hour" {
		t.Errorf("Profiles = %+v", cfg.Profiles)
	}
}

// TestValidate tests rejection of invalid configurations.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{
			name:    "negative steps",
			src:     "simulation:\n  steps: -1",
			wantMsg: "simulation.steps",
		},
		{
			name:    "negative step length",
			src:     "simulation:\n  step_length: -0.5",
			wantMsg: "step_length",
		},
		{
			name:    "truck share above one",
			src:     "simulation:\n  spawn:\n    truck_share: 1.5",
			wantMsg: "truck_share",
		},
		{
			name:    "speed range inverted",
			src:     "simulation:\n  spawn:\n    speed_min: 100\n    speed_max: 50",
			wantMsg: "speed_min",
		},
		{
			name:    "tracing without endpoint",
			src:     "tracing:\n  enabled: true",
			wantMsg: "tracing.endpoint",
		},
		{
			name:    "profile without name",
			src:     "profiles:\n  - schedule: \"* * * * *\"\n    rules_path: r.yaml",
			wantMsg: "profiles[0].name",
		},
		{
			name:    "profile with bad schedule",
			src:     "profiles:\n  - name: p\n    schedule: often\n    rules_path: r.yaml",
			wantMsg: "invalid schedule",
		},
		{
			name: "duplicate profile names",
			src: "profiles:\n" +
				"  - name: p\n    schedule: \"* * * * *\"\n    rules_path: a.yaml\n" +
				"  - name: p\n    schedule: \"* * * * *\"\n    rules_path: b.yaml",
			wantMsg: "duplicate profile name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.src))
			if err == nil {
				t.Fatal("LoadBytes must fail")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

// TestLoadBytes_InvalidYAML tests YAML syntax errors.
func TestLoadBytes_InvalidYAML(t *testing.T) {
	if _, err := LoadBytes([]byte("logging: [")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
