package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks cross-field invariants that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Simulation.Steps < 0 {
		return fmt.Errorf("simulation.steps must not be negative, got %d", c.Simulation.Steps)
	}
	if c.Simulation.StepLength <= 0 {
		return fmt.Errorf("simulation.step_length must be positive, got %g", c.Simulation.StepLength)
	}

	spawn := c.Simulation.Spawn
	if spawn.Vehicles < 0 {
		return fmt.Errorf("simulation.spawn.vehicles must not be negative, got %d", spawn.Vehicles)
	}
	if spawn.TruckShare < 0 || spawn.TruckShare > 1 {
		return fmt.Errorf("simulation.spawn.truck_share must be in [0, 1], got %g", spawn.TruckShare)
	}
	if spawn.SpeedMin < 0 {
		return fmt.Errorf("simulation.spawn.speed_min must not be negative, got %g", spawn.SpeedMin)
	}
	if spawn.SpeedMin > spawn.SpeedMax {
		return fmt.Errorf("simulation.spawn.speed_min %g exceeds speed_max %g", spawn.SpeedMin, spawn.SpeedMax)
	}
	if spawn.RoadLength <= 0 {
		return fmt.Errorf("simulation.spawn.road_length must be positive, got %g", spawn.RoadLength)
	}
	if spawn.Lanes <= 0 {
		return fmt.Errorf("simulation.spawn.lanes must be positive, got %d", spawn.Lanes)
	}

	if c.Results.Enabled && c.Results.DBPath == "" {
		return fmt.Errorf("results.db_path is required when results are enabled")
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}

	seen := make(map[string]struct{}, len(c.Profiles))
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for i, p := range c.Profiles {
		if p.Name == "" {
			return fmt.Errorf("profiles[%d].name is required", i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("profiles[%d]: duplicate profile name %q", i, p.Name)
		}
		seen[p.Name] = struct{}{}
		if p.RulesPath == "" {
			return fmt.Errorf("profiles[%d] (%s): rules_path is required", i, p.Name)
		}
		if _, err := parser.Parse(p.Schedule); err != nil {
			return fmt.Errorf("profiles[%d] (%s): invalid schedule %q: %w", i, p.Name, p.Schedule, err)
		}
	}

	return nil
}
