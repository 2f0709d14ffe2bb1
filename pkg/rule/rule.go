package rule

import (
	"fmt"
	"math"
	"strings"

	"trafficlab/otlane/pkg/vehicle"
)

// Kind identifies the predicate variant of a rule.
// The set of variants is closed; the evaluator matches exhaustively.
type Kind string

const (
	// KindUniversal applies to every vehicle.
	KindUniversal Kind = "universal"

	// KindNull applies to no vehicle.
	KindNull Kind = "null"

	// KindVehicleType applies to vehicles of an exact type.
	KindVehicleType Kind = "vehicle_type"

	// KindSpeed applies to vehicles whose maximum speed lies in a closed range.
	KindSpeed Kind = "speed"

	// KindPosition applies to vehicles inside (or outside) a bounding box.
	KindPosition Kind = "position"
)

// BoundingBox is an axis-aligned box on the road, defined by two corner
// points with P1 componentwise less than or equal to P2. Both corners are
// inclusive.
type BoundingBox struct {
	P1 vehicle.Position
	P2 vehicle.Position
}

// Contains reports whether p lies within the box, corners included.
func (b BoundingBox) Contains(p vehicle.Position) bool {
	return b.P1.X <= p.X && p.X <= b.P2.X &&
		b.P1.Y <= p.Y && p.Y <= b.P2.Y
}

// degenerate reports whether a corner ordering invariant is violated.
func (b BoundingBox) degenerate() bool {
	return b.P1.X > b.P2.X || b.P1.Y > b.P2.Y
}

// String returns the box formatted as "[(x1, y1), (x2, y2)]".
func (b BoundingBox) String() string {
	return fmt.Sprintf("[%s, %s]", b.P1, b.P2)
}

// Rule is a composable overtaking-lane access rule: a predicate leaf with a
// Behaviour, optionally extended with child rules folded by an Operator.
//
// A Rule owns its children exclusively. Adding a rule as its own descendant,
// directly or transitively, is a construction-time precondition violation
// the engine does not detect.
type Rule struct {
	kind      Kind
	behaviour Behaviour

	// Leaf parameters; which are meaningful depends on kind.
	vehicleType vehicle.Type
	minSpeed    float64
	maxSpeed    float64
	bbox        BoundingBox
	outside     bool

	operator Operator
	children []*Rule
}

// NewUniversal creates a rule that applies to every vehicle.
func NewUniversal(behaviour Behaviour) *Rule {
	return &Rule{kind: KindUniversal, behaviour: behaviour, operator: Any}
}

// NewNull creates a rule that applies to no vehicle. Applying it is the
// identity transform.
func NewNull() *Rule {
	return &Rule{kind: KindNull, behaviour: Deny, operator: Any}
}

// NewVehicleType creates a rule that applies to vehicles of exactly the
// given type.
func NewVehicleType(t vehicle.Type, behaviour Behaviour) *Rule {
	return &Rule{kind: KindVehicleType, behaviour: behaviour, vehicleType: t, operator: Any}
}

// NewSpeed creates a rule that applies to vehicles whose maximum speed lies
// in [min, max], both ends inclusive. It returns a ConstructionError if
// min > max.
func NewSpeed(min, max float64, behaviour Behaviour) (*Rule, error) {
	if min > max {
		return nil, &ConstructionError{
			RuleKind: KindSpeed,
			Reason:   fmt.Sprintf("min speed %g exceeds max speed %g", min, max),
		}
	}
	return &Rule{kind: KindSpeed, behaviour: behaviour, minSpeed: min, maxSpeed: max, operator: Any}, nil
}

// NewMinimalSpeed creates a speed rule with an open upper bound, applying to
// vehicles at least as fast as min.
func NewMinimalSpeed(min float64, behaviour Behaviour) (*Rule, error) {
	return NewSpeed(min, math.Inf(1), behaviour)
}

// NewPosition creates a rule that applies to vehicles positioned inside the
// bounding box, corners inclusive, or outside it when outside is set. It
// returns a ConstructionError for a degenerate box.
func NewPosition(bbox BoundingBox, outside bool, behaviour Behaviour) (*Rule, error) {
	if bbox.degenerate() {
		return nil, &ConstructionError{
			RuleKind: KindPosition,
			Reason:   fmt.Sprintf("degenerate bounding box %s", bbox),
		}
	}
	return &Rule{kind: KindPosition, behaviour: behaviour, bbox: bbox, outside: outside, operator: Any}, nil
}

// Kind returns the rule's predicate variant.
func (r *Rule) Kind() Kind {
	return r.kind
}

// Behaviour returns the outcome this rule assigns to vehicles it applies to.
func (r *Rule) Behaviour() Behaviour {
	return r.behaviour
}

// Operator returns the combinator folding child-rule results.
func (r *Rule) Operator() Operator {
	return r.operator
}

// Children returns a copy of the child list in insertion order.
func (r *Rule) Children() []*Rule {
	children := make([]*Rule, len(r.children))
	copy(children, r.children)
	return children
}

// valid reports whether r is a properly constructed rule.
func (r *Rule) valid() bool {
	if r == nil {
		return false
	}
	switch r.kind {
	case KindUniversal, KindNull, KindVehicleType, KindSpeed, KindPosition:
		return true
	default:
		return false
	}
}

// AddChild appends a child rule. It returns a TypeError if the child is nil
// or not a properly constructed rule. The child is owned by r afterwards.
func (r *Rule) AddChild(child *Rule) error {
	if !child.valid() {
		return &TypeError{Got: fmt.Sprintf("%v", child)}
	}
	r.children = append(r.children, child)
	return nil
}

// SetOperator sets the combinator for child-rule results. It returns a
// ValueError for an unknown operator, leaving the rule unchanged.
func (r *Rule) SetOperator(op Operator) error {
	if !op.valid() {
		return &ValueError{Kind: "operator", Value: string(op)}
	}
	r.operator = op
	return nil
}

// predicate evaluates the leaf test alone, ignoring children.
func (r *Rule) predicate(v vehicle.Snapshot) bool {
	switch r.kind {
	case KindUniversal:
		return true
	case KindNull:
		return false
	case KindVehicleType:
		return v.VehicleType() == r.vehicleType
	case KindSpeed:
		s := v.SpeedMax()
		return r.minSpeed <= s && s <= r.maxSpeed
	case KindPosition:
		inside := r.bbox.Contains(v.Position())
		if r.outside {
			return !inside
		}
		return inside
	default:
		return false
	}
}

// subrulesApplyTo folds the children's results under the rule's operator.
// Callers must not invoke it with zero children: an empty child list means
// "no additional constraint", which AppliesTo represents as true rather
// than the operator's vacuous value.
func (r *Rule) subrulesApplyTo(v vehicle.Snapshot) bool {
	results := make([]bool, len(r.children))
	for i, child := range r.children {
		results[i] = child.AppliesTo(v)
	}
	return r.operator.Evaluate(results)
}

// AppliesTo reports whether this rule, including its child tree, applies to
// the vehicle. The predicate gates applicability; children constrain it
// further only when present.
func (r *Rule) AppliesTo(v vehicle.Snapshot) bool {
	if !r.predicate(v) {
		return false
	}
	if len(r.children) == 0 {
		return true
	}
	return r.subrulesApplyTo(v)
}

// Apply writes the rule's classification tag onto every vehicle the rule
// applies to and leaves the others untouched. The batch is returned with
// order and length preserved, so sequential application of several rules
// behaves as "last applicable rule wins".
func (r *Rule) Apply(vehicles []vehicle.Snapshot) []vehicle.Snapshot {
	if r.kind == KindNull {
		return vehicles
	}
	for _, v := range vehicles {
		if r.AppliesTo(v) {
			v.SetClassification(r.behaviour.Vclass())
		}
	}
	return vehicles
}

// Equal reports structural equality over the full rule tree: kind, leaf
// parameters, behaviour, operator and children, in order.
func (r *Rule) Equal(other *Rule) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Fingerprint() == other.Fingerprint()
}

// Fingerprint returns a canonical string encoding of the full rule tree,
// used for value-equality and duplicate suppression in rule sets.
func (r *Rule) Fingerprint() string {
	var sb strings.Builder
	r.fingerprint(&sb)
	return sb.String()
}

func (r *Rule) fingerprint(sb *strings.Builder) {
	sb.WriteString(string(r.kind))
	switch r.kind {
	case KindVehicleType:
		fmt.Fprintf(sb, "(%s)", r.vehicleType)
	case KindSpeed:
		fmt.Fprintf(sb, "(%g,%g)", r.minSpeed, r.maxSpeed)
	case KindPosition:
		fmt.Fprintf(sb, "(%s,outside=%t)", r.bbox, r.outside)
	}
	fmt.Fprintf(sb, "->%s", r.behaviour)
	if len(r.children) > 0 {
		fmt.Fprintf(sb, "/%s{", r.operator)
		for i, child := range r.children {
			if i > 0 {
				sb.WriteByte(',')
			}
			child.fingerprint(sb)
		}
		sb.WriteByte('}')
	}
}

// String returns the fingerprint; it reads well enough for logs.
func (r *Rule) String() string {
	return r.Fingerprint()
}
