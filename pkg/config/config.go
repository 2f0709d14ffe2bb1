package config

import (
	"trafficlab/otlane/pkg/telemetry/logging"
	"trafficlab/otlane/pkg/telemetry/metrics"
	"trafficlab/otlane/pkg/telemetry/tracing"
)

// Config is the root application configuration.
type Config struct {
	// Logging configures the structured logger.
	Logging logging.Config `yaml:"logging"`

	// Metrics configures the Prometheus collector and its HTTP exposition.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing configures OpenTelemetry span export.
	Tracing tracing.Config `yaml:"tracing"`

	// Rules configures where the active rule set is loaded from.
	Rules RulesConfig `yaml:"rules"`

	// Simulation configures the loop and the synthetic vehicle feed.
	Simulation SimulationConfig `yaml:"simulation"`

	// Results configures the run results journal.
	Results ResultsConfig `yaml:"results"`

	// Profiles are named rule sets activated on cron schedules.
	Profiles []ProfileConfig `yaml:"profiles"`
}

// MetricsConfig wraps the collector configuration with an exposition listen
// address.
type MetricsConfig struct {
	metrics.Config `yaml:",inline"`

	// Listen is the address the /metrics endpoint is served on when
	// metrics are enabled, e.g. ":9090".
	Listen string `yaml:"listen"`
}

// RulesConfig locates the rule specification source.
type RulesConfig struct {
	// Path is a rule specification file or a directory of such files.
	// Empty means the simulation starts with an empty rule set.
	Path string `yaml:"path"`

	// Watch reloads the rule set between timesteps when the path changes.
	Watch bool `yaml:"watch"`
}

// SimulationConfig configures the simulation loop.
type SimulationConfig struct {
	// Steps is the number of timesteps to run. Zero means run until the
	// context is cancelled.
	Steps int `yaml:"steps"`

	// StepLength is the simulated duration of one timestep in seconds.
	StepLength float64 `yaml:"step_length"`

	// Spawn configures the synthetic vehicle feed.
	Spawn SpawnConfig `yaml:"spawn"`
}

// SpawnConfig configures the synthetic vehicle feed used when no external
// simulator drives the loop.
type SpawnConfig struct {
	// Vehicles is the number of vehicles kept in the simulation.
	Vehicles int `yaml:"vehicles"`

	// TruckShare is the fraction of spawned vehicles that are trucks,
	// in [0, 1]; the remainder are passenger cars.
	TruckShare float64 `yaml:"truck_share"`

	// SpeedMin and SpeedMax bound the uniformly drawn maximum speeds in
	// m/s.
	SpeedMin float64 `yaml:"speed_min"`
	SpeedMax float64 `yaml:"speed_max"`

	// RoadLength is the length of the simulated road in m.
	RoadLength float64 `yaml:"road_length"`

	// Lanes is the number of lanes, indexed from 0.
	Lanes int `yaml:"lanes"`

	// Seed seeds the random source; zero picks a time-based seed.
	Seed int64 `yaml:"seed"`
}

// ResultsConfig configures the sqlite run journal.
type ResultsConfig struct {
	// Enabled turns per-step result recording on.
	Enabled bool `yaml:"enabled"`

	// DBPath is the sqlite database file path.
	DBPath string `yaml:"db_path"`
}

// ProfileConfig names a rule specification file activated on a cron
// schedule, e.g. a stricter rush-hour rule set.
type ProfileConfig struct {
	// Name identifies the profile in logs.
	Name string `yaml:"name"`

	// Schedule is a standard 5-field cron expression.
	Schedule string `yaml:"schedule"`

	// RulesPath is the rule specification file or directory the profile
	// activates.
	RulesPath string `yaml:"rules_path"`
}
