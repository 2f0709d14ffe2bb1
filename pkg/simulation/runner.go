package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trafficlab/otlane/pkg/config"
	"trafficlab/otlane/pkg/cse"
	"trafficlab/otlane/pkg/cse/source"
	"trafficlab/otlane/pkg/results"
	"trafficlab/otlane/pkg/rule"
	"trafficlab/otlane/pkg/telemetry/metrics"
	"trafficlab/otlane/pkg/telemetry/tracing"
	"trafficlab/otlane/pkg/vehicle"
)

// TelemetryFeed supplies the vehicles present at each timestep. Vehicles
// advances the feed to the given step and returns the current fleet.
type TelemetryFeed interface {
	Vehicles(ctx context.Context, step int) ([]*vehicle.Vehicle, error)
}

// ClassificationSink receives the classified vehicles after each timestep,
// e.g. to forward vehicle-class changes to an external simulator.
type ClassificationSink interface {
	Forward(ctx context.Context, vehicles []*vehicle.Vehicle) error
}

// SinkFunc adapts a function to the ClassificationSink interface.
type SinkFunc func(ctx context.Context, vehicles []*vehicle.Vehicle) error

// Forward calls f.
func (f SinkFunc) Forward(ctx context.Context, vehicles []*vehicle.Vehicle) error {
	return f(ctx, vehicles)
}

// DiscardSink returns a sink that drops all classifications.
func DiscardSink() ClassificationSink {
	return SinkFunc(func(context.Context, []*vehicle.Vehicle) error { return nil })
}

// Runner drives the timestep loop: refresh the fleet from the telemetry
// feed, apply the dispatcher's rule set, forward the classifications, and
// record per-step counts. Rule set changes from watched files and scheduled
// profiles are applied between timesteps only.
type Runner struct {
	cfg        config.SimulationConfig
	dispatcher *cse.Dispatcher
	feed       TelemetryFeed
	sink       ClassificationSink
	logger     *slog.Logger

	collector *metrics.Collector
	tracer    *tracing.Tracer
	store     *results.Store
	scheduler *Scheduler
	ruleSrc   source.Source
	events    <-chan source.Event
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithCollector attaches a metrics collector.
func WithCollector(c *metrics.Collector) RunnerOption {
	return func(r *Runner) { r.collector = c }
}

// WithTracer attaches a tracer; each timestep becomes one span.
func WithTracer(t *tracing.Tracer) RunnerOption {
	return func(r *Runner) { r.tracer = t }
}

// WithResults attaches a results journal; per-step counts are recorded
// under a fresh run.
func WithResults(s *results.Store) RunnerOption {
	return func(r *Runner) { r.store = s }
}

// WithScheduler attaches cron-scheduled rule profiles.
func WithScheduler(s *Scheduler) RunnerOption {
	return func(r *Runner) { r.scheduler = s }
}

// WithRuleReload watches the given source and atomically replaces the rule
// set between timesteps when its specifications change.
func WithRuleReload(src source.Source) RunnerOption {
	return func(r *Runner) { r.ruleSrc = src }
}

// NewRunner creates a runner. A nil sink discards classifications.
func NewRunner(cfg config.SimulationConfig, dispatcher *cse.Dispatcher, feed TelemetryFeed, sink ClassificationSink, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if sink == nil {
		sink = DiscardSink()
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Runner{
		cfg:        cfg,
		dispatcher: dispatcher,
		feed:       feed,
		sink:       sink,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		// New with a nil config never fails and yields a noop tracer.
		r.tracer, _ = tracing.New(nil)
	}
	return r
}

// Run executes the simulation loop until the configured step count is
// reached or the context is cancelled. Cancellation is an orderly stop, not
// an error.
func (r *Runner) Run(ctx context.Context) error {
	if r.ruleSrc != nil {
		events, err := r.ruleSrc.Watch(ctx)
		if err != nil {
			return fmt.Errorf("failed to watch rule source: %w", err)
		}
		r.events = events
	}

	var runID string
	if r.store != nil {
		id, err := r.store.BeginRun(ctx, ruleSetFingerprint(r.dispatcher.Rules()))
		if err != nil {
			return err
		}
		runID = id
	}

	r.logger.Info("simulation started",
		"steps", r.cfg.Steps,
		"step_length", r.cfg.StepLength,
		"rule_set_size", r.dispatcher.Size(),
		"run_id", runID,
	)
	start := time.Now()

	var step int
	for step = 0; r.cfg.Steps == 0 || step < r.cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			return r.finish(runID, step, start, ctx.Err())
		default:
		}

		r.activateDueProfiles(ctx)
		r.drainRuleEvents(ctx)

		if err := r.step(ctx, runID, step); err != nil {
			return r.finish(runID, step, start, err)
		}
	}

	return r.finish(runID, step, start, nil)
}

// step runs one timestep.
func (r *Runner) step(ctx context.Context, runID string, step int) error {
	fleet, err := r.feed.Vehicles(ctx, step)
	if err != nil {
		return fmt.Errorf("telemetry feed failed at step %d: %w", step, err)
	}

	stepCtx, span := r.tracer.Start(ctx, "otlane.timestep", trace.WithAttributes(
		attribute.Int("otlane.step", step),
		attribute.Int("otlane.vehicles", len(fleet)),
	))

	snapshots := make([]vehicle.Snapshot, len(fleet))
	for i, v := range fleet {
		snapshots[i] = v
	}
	r.dispatcher.Apply(snapshots)

	counts := results.StepCounts{Step: step}
	for _, v := range fleet {
		switch v.Classification() {
		case rule.AllowedClass():
			counts.Allowed++
		case rule.DisallowedClass():
			counts.Denied++
		}
	}
	span.SetAttributes(
		attribute.Int("otlane.allowed", counts.Allowed),
		attribute.Int("otlane.denied", counts.Denied),
	)

	sinkErr := r.sink.Forward(stepCtx, fleet)
	span.End()
	if sinkErr != nil {
		return fmt.Errorf("classification sink failed at step %d: %w", step, sinkErr)
	}

	if r.store != nil {
		if err := r.store.RecordStep(ctx, runID, counts); err != nil {
			return err
		}
	}
	r.collector.RecordStep()
	return nil
}

// activateDueProfiles swaps the rule set for each profile whose schedule
// fired since the previous timestep. A profile that fails to load keeps the
// current rule set active.
func (r *Runner) activateDueProfiles(ctx context.Context) {
	if r.scheduler == nil {
		return
	}
	for _, p := range r.scheduler.Due(time.Now()) {
		specs, err := p.Source.LoadSpecs(ctx)
		if err != nil {
			r.logger.Warn("profile rule load failed, keeping current rule set",
				"profile", p.Name,
				"error", err,
			)
			continue
		}
		if err := r.dispatcher.ReplaceFromConfig(specs); err != nil {
			continue
		}
		r.logger.Info("rule profile activated",
			"profile", p.Name,
			"rule_set_size", r.dispatcher.Size(),
		)
	}
}

// drainRuleEvents applies pending rule source changes without blocking.
func (r *Runner) drainRuleEvents(ctx context.Context) {
	for {
		select {
		case ev, ok := <-r.events:
			if !ok {
				r.events = nil
				return
			}
			r.handleRuleEvent(ctx, ev)
		default:
			return
		}
	}
}

func (r *Runner) handleRuleEvent(ctx context.Context, ev source.Event) {
	if ev.Type == source.EventRemoved {
		r.logger.Warn("rule source removed, keeping current rule set", "path", ev.Path)
		return
	}

	specs, err := r.ruleSrc.LoadSpecs(ctx)
	if err != nil {
		r.logger.Warn("rule reload failed, keeping current rule set",
			"path", ev.Path,
			"error", err,
		)
		return
	}
	if err := r.dispatcher.ReplaceFromConfig(specs); err != nil {
		return
	}
	r.logger.Info("rule set reloaded", "path", ev.Path, "rule_set_size", r.dispatcher.Size())
}

// finish closes out the run. Context cancellation counts as an orderly stop.
func (r *Runner) finish(runID string, steps int, start time.Time, cause error) error {
	if r.store != nil {
		if err := r.store.FinishRun(context.Background(), runID); err != nil {
			r.logger.Warn("failed to finish results run", "run_id", runID, "error", err)
		}
	}

	if errors.Is(cause, context.Canceled) {
		cause = nil
	}
	if cause != nil {
		r.logger.Error("simulation aborted", "steps_completed", steps, "error", cause)
		return cause
	}

	r.logger.Info("simulation finished",
		"steps_completed", steps,
		"duration", time.Since(start),
	)
	return nil
}

// ruleSetFingerprint canonically encodes a rule set for the results journal.
func ruleSetFingerprint(rules []*rule.Rule) string {
	fps := make([]string, len(rules))
	for i, r := range rules {
		fps[i] = r.Fingerprint()
	}
	return strings.Join(fps, ";")
}
