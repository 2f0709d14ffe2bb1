package config

import "trafficlab/otlane/pkg/telemetry/logging"

// Default returns a runnable baseline configuration.
func Default() *Config {
	return &Config{
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Listen: ":9090",
		},
		Simulation: SimulationConfig{
			Steps:      1000,
			StepLength: 1.0,
			Spawn: SpawnConfig{
				Vehicles:   100,
				TruckShare: 0.2,
				SpeedMin:   16.7,  // 60 km/h
				SpeedMax:   69.4,  // 250 km/h
				RoadLength: 5000,
				Lanes:      2,
			},
		},
		Results: ResultsConfig{
			DBPath: "otlane-results.db",
		},
	}
}

// applyDefaults fills unset fields of cfg from the baseline.
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = def.Metrics.Listen
	}
	if cfg.Simulation.StepLength == 0 {
		cfg.Simulation.StepLength = def.Simulation.StepLength
	}
	if cfg.Simulation.Spawn.Vehicles == 0 {
		cfg.Simulation.Spawn.Vehicles = def.Simulation.Spawn.Vehicles
	}
	if cfg.Simulation.Spawn.SpeedMax == 0 {
		cfg.Simulation.Spawn.SpeedMin = def.Simulation.Spawn.SpeedMin
		cfg.Simulation.Spawn.SpeedMax = def.Simulation.Spawn.SpeedMax
	}
	if cfg.Simulation.Spawn.RoadLength == 0 {
		cfg.Simulation.Spawn.RoadLength = def.Simulation.Spawn.RoadLength
	}
	if cfg.Simulation.Spawn.Lanes == 0 {
		cfg.Simulation.Spawn.Lanes = def.Simulation.Spawn.Lanes
	}
	if cfg.Results.DBPath == "" {
		cfg.Results.DBPath = def.Results.DBPath
	}
}
