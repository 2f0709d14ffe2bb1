package cse

import (
	"fmt"
	"log/slog"
	"time"

	"trafficlab/otlane/pkg/rule"
	"trafficlab/otlane/pkg/rulecfg"
	"trafficlab/otlane/pkg/telemetry/metrics"
	"trafficlab/otlane/pkg/vehicle"
)

// Dispatcher owns the active rule set and applies it to vehicle batches.
//
// The rule set has set semantics under structural value equality: adding a
// rule equal to one already present is a no-op. Iteration order is an
// implementation detail callers must not rely on; within one Apply call the
// order is consistent.
type Dispatcher struct {
	// rules in insertion order; index maps fingerprints to positions for
	// duplicate suppression.
	rules []*rule.Rule
	index map[string]struct{}

	logger    *slog.Logger
	collector *metrics.Collector
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithCollector attaches a metrics collector. A nil collector is ignored.
func WithCollector(c *metrics.Collector) Option {
	return func(d *Dispatcher) {
		d.collector = c
	}
}

// NewDispatcher creates a dispatcher with an empty rule set.
func NewDispatcher(logger *slog.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		index:  make(map[string]struct{}),
		logger: logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddRule inserts a top-level rule into the rule set. It returns a
// TypeError for a nil or improperly constructed rule. Adding a rule equal
// to one already present leaves the set unchanged.
func (d *Dispatcher) AddRule(r *rule.Rule) error {
	if r == nil || r.Kind() == "" {
		return &TypeError{Got: fmt.Sprintf("%v", r)}
	}

	fp := r.Fingerprint()
	if _, ok := d.index[fp]; ok {
		d.logger.Debug("duplicate rule suppressed", "rule", fp)
		return nil
	}

	d.rules = append(d.rules, r)
	d.index[fp] = struct{}{}
	d.collector.SetRuleSetSize(len(d.rules))

	d.logger.Debug("rule added", "rule", fp, "rule_set_size", len(d.rules))
	return nil
}

// Rules returns the current rule set as a copy. The slice order is an
// implementation detail and not part of the contract.
func (d *Dispatcher) Rules() []*rule.Rule {
	rules := make([]*rule.Rule, len(d.rules))
	copy(rules, d.rules)
	return rules
}

// Size returns the number of top-level rules.
func (d *Dispatcher) Size() int {
	return len(d.rules)
}

// Apply runs every top-level rule over the batch and returns the same
// batch, order and length preserved. Rules applied later override the
// classification written by earlier ones for vehicles matched by both.
// With an empty rule set the batch passes through unmodified.
func (d *Dispatcher) Apply(vehicles []vehicle.Snapshot) []vehicle.Snapshot {
	start := time.Now()

	for _, r := range d.rules {
		for _, v := range vehicles {
			applied := r.AppliesTo(v)
			d.collector.RecordEvaluation(string(r.Kind()), applied)
			if applied {
				v.SetClassification(r.Behaviour().Vclass())
				d.collector.RecordClassification(string(r.Behaviour()))
			}
		}
	}

	d.collector.RecordApply(len(vehicles), time.Since(start))
	return vehicles
}

// AddRulesFromConfig builds rules from declarative records and inserts them
// into the rule set. Construction is all-or-nothing: on any configuration
// error the rule set is left unchanged and the error is returned.
func (d *Dispatcher) AddRulesFromConfig(specs []rulecfg.Spec) error {
	built, err := rulecfg.Build(specs)
	if err != nil {
		d.logger.Warn("rule configuration rejected", "error", err)
		return err
	}

	for _, r := range built {
		if err := d.AddRule(r); err != nil {
			// Build only emits valid rules; reaching this would be a
			// bug in the builder.
			return err
		}
	}

	d.logger.Info("rules added from configuration",
		"configured", len(specs),
		"rule_set_size", len(d.rules),
	)
	return nil
}

// ReplaceFromConfig atomically swaps the entire rule set for one built from
// declarative records. On a configuration error the previous rule set stays
// active.
func (d *Dispatcher) ReplaceFromConfig(specs []rulecfg.Spec) error {
	built, err := rulecfg.Build(specs)
	if err != nil {
		d.logger.Warn("rule set replacement rejected, keeping previous rules",
			"error", err,
			"rule_set_size", len(d.rules),
		)
		return err
	}

	d.rules = d.rules[:0]
	d.index = make(map[string]struct{})
	for _, r := range built {
		fp := r.Fingerprint()
		if _, ok := d.index[fp]; ok {
			continue
		}
		d.rules = append(d.rules, r)
		d.index[fp] = struct{}{}
	}
	d.collector.SetRuleSetSize(len(d.rules))

	d.logger.Info("rule set replaced", "rule_set_size", len(d.rules))
	return nil
}
