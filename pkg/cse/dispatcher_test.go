package cse

import (
	"errors"
	"log/slog"
	"math/rand"
	"testing"

	"trafficlab/otlane/pkg/rule"
	"trafficlab/otlane/pkg/rulecfg"
	"trafficlab/otlane/pkg/vehicle"
)

// testVehicle is a minimal Snapshot implementation for dispatcher tests.
type testVehicle struct {
	vehicleType    vehicle.Type
	speedMax       float64
	position       vehicle.Position
	classification string
}

func (v *testVehicle) VehicleType() vehicle.Type    { return v.vehicleType }
func (v *testVehicle) SpeedMax() float64            { return v.speedMax }
func (v *testVehicle) Position() vehicle.Position   { return v.position }
func (v *testVehicle) SetClassification(tag string) { v.classification = tag }

func batch(vehicles ...*testVehicle) []vehicle.Snapshot {
	out := make([]vehicle.Snapshot, len(vehicles))
	for i, v := range vehicles {
		out[i] = v
	}
	return out
}

// TestAddRule tests rule insertion, duplicate suppression, and type checks.
func TestAddRule(t *testing.T) {
	d := NewDispatcher(slog.Default())

	speed, err := rule.NewMinimalSpeed(80, rule.Allow)
	if err != nil {
		t.Fatalf("NewMinimalSpeed: %v", err)
	}
	if err := d.AddRule(speed); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	if d.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", d.Size())
	}

	// A value-equal rule is suppressed even though it is a distinct object.
	equal, err := rule.NewMinimalSpeed(80, rule.Allow)
	if err != nil {
		t.Fatalf("NewMinimalSpeed: %v", err)
	}
	if err := d.AddRule(equal); err != nil {
		t.Fatalf("AddRule (duplicate): %v", err)
	}
	if d.Size() != 1 {
		t.Errorf("Size() = %d after duplicate add, want 1", d.Size())
	}

	// A different rule grows the set.
	other := rule.NewVehicleType(vehicle.TypeTruck, rule.Deny)
	if err := d.AddRule(other); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	if d.Size() != 2 {
		t.Errorf("Size() = %d, want 2", d.Size())
	}

	var typeErr *TypeError
	if err := d.AddRule(nil); !errors.As(err, &typeErr) {
		t.Errorf("AddRule(nil) error = %v, want TypeError", err)
	}
	if err := d.AddRule(&rule.Rule{}); !errors.As(err, &typeErr) {
		t.Errorf("AddRule(zero rule) error = %v, want TypeError", err)
	}
}

// TestRules tests the read view.
func TestRules(t *testing.T) {
	d := NewDispatcher(nil)
	r := rule.NewUniversal(rule.Deny)
	if err := d.AddRule(r); err != nil {
		t.Fatalf("AddRule: %v", err)
	}

	view := d.Rules()
	if len(view) != 1 {
		t.Fatalf("len(Rules()) = %d, want 1", len(view))
	}

	// Mutating the view must not affect the dispatcher.
	view[0] = nil
	if d.Rules()[0] == nil {
		t.Error("Rules() must return a copy")
	}
}

// TestApply_EmptyRuleSet tests pass-through with no rules.
func TestApply_EmptyRuleSet(t *testing.T) {
	d := NewDispatcher(nil)

	v := &testVehicle{classification: "untouched"}
	out := d.Apply(batch(v))

	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if v.classification != "untouched" {
		t.Errorf("classification = %q, want untouched", v.classification)
	}
}

// TestApply_LaterRuleWins tests dispatcher order sensitivity: for a vehicle
// matched by two rules with different behaviours, the later-applied rule's
// tag sticks. The dispatcher applies rules in insertion order.
func TestApply_LaterRuleWins(t *testing.T) {
	denyTrucks := rule.NewVehicleType(vehicle.TypeTruck, rule.Deny)
	allowFast, err := rule.NewMinimalSpeed(80, rule.Allow)
	if err != nil {
		t.Fatalf("NewMinimalSpeed: %v", err)
	}

	fastTruck := func() *testVehicle {
		return &testVehicle{vehicleType: vehicle.TypeTruck, speedMax: 90}
	}

	d := NewDispatcher(nil)
	if err := d.AddRule(denyTrucks); err != nil {
		t.Fatal(err)
	}
	if err := d.AddRule(allowFast); err != nil {
		t.Fatal(err)
	}
	v := fastTruck()
	d.Apply(batch(v))
	if v.classification != rule.Allow.Vclass() {
		t.Errorf("classification = %q, want %q", v.classification, rule.Allow.Vclass())
	}

	// Reversed insertion order reverses the outcome.
	d = NewDispatcher(nil)
	if err := d.AddRule(allowFast); err != nil {
		t.Fatal(err)
	}
	if err := d.AddRule(denyTrucks); err != nil {
		t.Fatal(err)
	}
	v = fastTruck()
	d.Apply(batch(v))
	if v.classification != rule.Deny.Vclass() {
		t.Errorf("classification = %q, want %q", v.classification, rule.Deny.Vclass())
	}
}

// TestApply_Scenario tests the overtaking-lane scenario: a deny-all baseline
// followed by an allow for fast vehicles inside the managed zone.
func TestApply_Scenario(t *testing.T) {
	d := NewDispatcher(nil)

	// Baseline: nobody may use the overtaking lane.
	if err := d.AddRule(rule.NewUniversal(rule.Deny)); err != nil {
		t.Fatal(err)
	}

	// Allow vehicles inside the managed zone that can go at least 80.
	zone, err := rule.NewPosition(rule.BoundingBox{
		P1: vehicle.Position{X: 0, Y: 0},
		P2: vehicle.Position{X: 64, Y: 1},
	}, false, rule.Allow)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	if err := zone.SetOperator(rule.All); err != nil {
		t.Fatal(err)
	}
	fast, err := rule.NewMinimalSpeed(80, rule.Allow)
	if err != nil {
		t.Fatalf("NewMinimalSpeed: %v", err)
	}
	if err := zone.AddChild(fast); err != nil {
		t.Fatal(err)
	}
	if err := d.AddRule(zone); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		v    *testVehicle
		want string
	}{
		{
			name: "fast vehicle in zone is allowed",
			v:    &testVehicle{speedMax: 90, position: vehicle.Position{X: 32, Y: 0}},
			want: rule.Allow.Vclass(),
		},
		{
			name: "slow vehicle in zone is denied",
			v:    &testVehicle{speedMax: 60, position: vehicle.Position{X: 32, Y: 0}},
			want: rule.Deny.Vclass(),
		},
		{
			name: "fast vehicle outside zone is denied",
			v:    &testVehicle{speedMax: 120, position: vehicle.Position{X: 100, Y: 0}},
			want: rule.Deny.Vclass(),
		},
		{
			name: "boundary speed in zone is allowed",
			v:    &testVehicle{speedMax: 80, position: vehicle.Position{X: 64, Y: 1}},
			want: rule.Allow.Vclass(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d.Apply(batch(tt.v))
			if tt.v.classification != tt.want {
				t.Errorf("classification = %q, want %q", tt.v.classification, tt.want)
			}
		})
	}
}

// TestApply_RandomBatch tests the classic zone scenario over a randomized
// batch, mirroring how the rule set behaves on realistic traffic.
func TestApply_RandomBatch(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	d := NewDispatcher(nil)
	outsideZone, err := rule.NewPosition(rule.BoundingBox{
		P1: vehicle.Position{X: 0, Y: 0},
		P2: vehicle.Position{X: 64, Y: 1},
	}, true, rule.Deny)
	if err != nil {
		t.Fatal(err)
	}
	slow, err := rule.NewSpeed(0, 79.999, rule.Deny)
	if err != nil {
		t.Fatal(err)
	}
	fastInZone, err := rule.NewPosition(rule.BoundingBox{
		P1: vehicle.Position{X: 0, Y: 0},
		P2: vehicle.Position{X: 64, Y: 1},
	}, false, rule.Allow)
	if err != nil {
		t.Fatal(err)
	}
	if err := fastInZone.SetOperator(rule.All); err != nil {
		t.Fatal(err)
	}
	fast, err := rule.NewMinimalSpeed(80, rule.Allow)
	if err != nil {
		t.Fatal(err)
	}
	if err := fastInZone.AddChild(fast); err != nil {
		t.Fatal(err)
	}
	for _, r := range []*rule.Rule{outsideZone, slow, fastInZone} {
		if err := d.AddRule(r); err != nil {
			t.Fatal(err)
		}
	}

	vehicles := make([]*testVehicle, 500)
	snapshots := make([]vehicle.Snapshot, len(vehicles))
	for i := range vehicles {
		vehicles[i] = &testVehicle{
			speedMax: float64(rng.Intn(250)),
			position: vehicle.Position{X: float64(rng.Intn(120)), Y: float64(rng.Intn(2))},
		}
		snapshots[i] = vehicles[i]
	}

	d.Apply(snapshots)

	for _, v := range vehicles {
		inZone := v.position.X <= 64 && v.position.Y <= 1
		want := rule.Deny.Vclass()
		if inZone && v.speedMax >= 80 {
			want = rule.Allow.Vclass()
		}
		if v.classification != want {
			t.Fatalf("vehicle speed=%g pos=%s: classification = %q, want %q",
				v.speedMax, v.position, v.classification, want)
		}
	}
}

// TestAddRulesFromConfig tests configuration-driven construction.
func TestAddRulesFromConfig(t *testing.T) {
	d := NewDispatcher(nil)

	specs := []rulecfg.Spec{
		{
			Type: "position",
			Args: map[string]interface{}{
				"bounding_box": []interface{}{
					[]interface{}{1350.0, -2.0},
					[]interface{}{2500.0, 2.0},
				},
			},
			SubruleOperator: "any",
			Subrules: []rulecfg.Spec{{
				Type: "minimal_speed",
				Args: map[string]interface{}{"minimal_speed": 85 / 3.6},
			}},
		},
		{
			Type:      "vehicle_type",
			Args:      map[string]interface{}{"vehicle_type": "truck"},
			Behaviour: "deny",
		},
	}

	if err := d.AddRulesFromConfig(specs); err != nil {
		t.Fatalf("AddRulesFromConfig: %v", err)
	}
	if d.Size() != 2 {
		t.Errorf("Size() = %d, want 2", d.Size())
	}

	kinds := map[rule.Kind]bool{}
	for _, r := range d.Rules() {
		kinds[r.Kind()] = true
	}
	if !kinds[rule.KindPosition] || !kinds[rule.KindVehicleType] {
		t.Errorf("rule set kinds = %v, want position and vehicle_type", kinds)
	}
}

// TestAddRulesFromConfig_Empty tests that an empty configuration builds an
// empty rule set.
func TestAddRulesFromConfig_Empty(t *testing.T) {
	d := NewDispatcher(nil)
	if err := d.AddRulesFromConfig(nil); err != nil {
		t.Fatalf("AddRulesFromConfig(nil): %v", err)
	}
	if d.Size() != 0 {
		t.Errorf("Size() = %d, want 0", d.Size())
	}
}

// TestAddRulesFromConfig_Atomic tests all-or-nothing semantics: a bad record
// anywhere in the batch leaves the rule set unchanged.
func TestAddRulesFromConfig_Atomic(t *testing.T) {
	d := NewDispatcher(nil)
	if err := d.AddRule(rule.NewUniversal(rule.Deny)); err != nil {
		t.Fatal(err)
	}

	specs := []rulecfg.Spec{
		{Type: "null"},
		{Type: "speed", Args: map[string]interface{}{"min_speed": 100, "max_speed": 10}},
	}

	err := d.AddRulesFromConfig(specs)
	var cfgErr *rulecfg.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("AddRulesFromConfig error = %v, want ConfigError", err)
	}
	if d.Size() != 1 {
		t.Errorf("Size() = %d after failed config, want 1 (unchanged)", d.Size())
	}
}

// TestReplaceFromConfig tests atomic rule set replacement for hot reloads.
func TestReplaceFromConfig(t *testing.T) {
	d := NewDispatcher(nil)
	if err := d.AddRule(rule.NewUniversal(rule.Deny)); err != nil {
		t.Fatal(err)
	}
	if err := d.AddRule(rule.NewVehicleType(vehicle.TypeTruck, rule.Deny)); err != nil {
		t.Fatal(err)
	}

	if err := d.ReplaceFromConfig([]rulecfg.Spec{{Type: "null"}}); err != nil {
		t.Fatalf("ReplaceFromConfig: %v", err)
	}
	if d.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", d.Size())
	}
	if d.Rules()[0].Kind() != rule.KindNull {
		t.Errorf("Kind() = %v, want %v", d.Rules()[0].Kind(), rule.KindNull)
	}

	// A bad replacement keeps the previous rule set.
	err := d.ReplaceFromConfig([]rulecfg.Spec{{Type: "bogus"}})
	if err == nil {
		t.Fatal("ReplaceFromConfig with bad spec must fail")
	}
	if d.Size() != 1 || d.Rules()[0].Kind() != rule.KindNull {
		t.Error("failed replacement must keep the previous rule set")
	}
}

// TestReplaceFromConfig_DeduplicatesSpecs tests set semantics across
// duplicate records in one configuration.
func TestReplaceFromConfig_DeduplicatesSpecs(t *testing.T) {
	d := NewDispatcher(nil)

	specs := []rulecfg.Spec{
		{Type: "universal", Behaviour: "deny"},
		{Type: "universal", Behaviour: "deny"},
	}
	if err := d.ReplaceFromConfig(specs); err != nil {
		t.Fatalf("ReplaceFromConfig: %v", err)
	}
	if d.Size() != 1 {
		t.Errorf("Size() = %d, want 1 (duplicates suppressed)", d.Size())
	}
}
