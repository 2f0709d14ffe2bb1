package simulation

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"trafficlab/otlane/pkg/config"
	"trafficlab/otlane/pkg/cse/source"
)

// Profile is a named rule set activated on a cron schedule, e.g. a stricter
// rush-hour rule set that replaces the baseline every weekday morning.
type Profile struct {
	// Name identifies the profile in logs.
	Name string

	// Source loads the profile's rule specifications on activation.
	Source source.Source

	schedule cron.Schedule
	next     time.Time
}

// Scheduler tracks which rule profile is due for activation. The runner
// polls Due at the top of each loop iteration, so profile swaps happen
// strictly between timesteps.
type Scheduler struct {
	profiles []*Profile
	logger   *slog.Logger
}

// NewScheduler builds a scheduler from profile configurations. Schedules
// are standard 5-field cron expressions; each profile's rules come from a
// file-backed source at its configured path.
func NewScheduler(cfgs []config.ProfileConfig, logger *slog.Logger) (*Scheduler, error) {
	return newSchedulerAt(cfgs, logger, time.Now())
}

func newSchedulerAt(cfgs []config.ProfileConfig, logger *slog.Logger, now time.Time) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	profiles := make([]*Profile, 0, len(cfgs))
	for _, pc := range cfgs {
		schedule, err := cron.ParseStandard(pc.Schedule)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule for profile %q: %w", pc.Name, err)
		}
		profiles = append(profiles, &Profile{
			Name:     pc.Name,
			Source:   source.NewFileSource(pc.RulesPath, logger),
			schedule: schedule,
			next:     schedule.Next(now),
		})
	}

	return &Scheduler{profiles: profiles, logger: logger}, nil
}

// Len returns the number of scheduled profiles.
func (s *Scheduler) Len() int {
	return len(s.profiles)
}

// Due returns the profiles whose activation time has passed since the last
// call, in configuration order, and schedules their next activation. When
// several profiles fire at once the caller applies them in order, so the
// last configured profile wins.
func (s *Scheduler) Due(now time.Time) []*Profile {
	var due []*Profile
	for _, p := range s.profiles {
		if !p.next.After(now) {
			due = append(due, p)
			p.next = p.schedule.Next(now)
		}
	}
	return due
}
