package simulation

import (
	"context"
	"math/rand"
	"time"

	"trafficlab/otlane/pkg/config"
	"trafficlab/otlane/pkg/vehicle"
)

// Spawner is a synthetic TelemetryFeed. It maintains a fleet of vehicles
// with uniformly drawn maximum speeds and advances each one along the road
// at that speed every timestep. A vehicle driving past the end of the road
// leaves the simulation and a fresh one enters at the start, so the fleet
// size stays constant.
type Spawner struct {
	cfg        config.SpawnConfig
	stepLength float64
	rng        *rand.Rand
	fleet      []*vehicle.Vehicle
}

// NewSpawner creates a spawner with an initial fleet spread over the road.
// A zero seed picks a time-based one.
func NewSpawner(cfg config.SpawnConfig, stepLength float64) *Spawner {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Spawner{
		cfg:        cfg,
		stepLength: stepLength,
		rng:        rand.New(rand.NewSource(seed)),
	}
	s.fleet = make([]*vehicle.Vehicle, 0, cfg.Vehicles)
	for i := 0; i < cfg.Vehicles; i++ {
		v := s.spawn()
		v.SetPosition(vehicle.Position{X: s.rng.Float64() * cfg.RoadLength, Y: v.Position().Y})
		s.fleet = append(s.fleet, v)
	}
	return s
}

// spawn draws a new vehicle at the start of the road.
func (s *Spawner) spawn() *vehicle.Vehicle {
	vehicleType := vehicle.TypePassenger
	if s.rng.Float64() < s.cfg.TruckShare {
		vehicleType = vehicle.TypeTruck
	}

	speed := s.cfg.SpeedMin + s.rng.Float64()*(s.cfg.SpeedMax-s.cfg.SpeedMin)
	v := vehicle.New(vehicleType, speed)

	var lane float64
	if s.cfg.Lanes > 1 {
		lane = float64(s.rng.Intn(s.cfg.Lanes))
	}
	v.SetPosition(vehicle.Position{X: 0, Y: lane})
	return v
}

// Vehicles advances every vehicle by one timestep and returns the fleet.
func (s *Spawner) Vehicles(ctx context.Context, step int) ([]*vehicle.Vehicle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, v := range s.fleet {
		p := v.Position()
		p.X += v.SpeedMax() * s.stepLength
		if s.cfg.RoadLength > 0 && p.X >= s.cfg.RoadLength {
			s.fleet[i] = s.spawn()
			continue
		}
		v.SetPosition(p)
	}

	fleet := make([]*vehicle.Vehicle, len(s.fleet))
	copy(fleet, s.fleet)
	return fleet, nil
}
