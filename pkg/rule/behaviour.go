package rule

import "strings"

// Behaviour represents the outcome a rule assigns to vehicles it applies to.
type Behaviour string

const (
	// Allow grants access to the overtaking lane.
	Allow Behaviour = "allow"

	// Deny revokes access to the overtaking lane.
	Deny Behaviour = "deny"
)

// Vehicle-class tags consumed by the simulator. The simulator maps these
// onto lane permissions; the engine treats them as opaque.
const (
	allowedClass    = "custom2"
	disallowedClass = "custom1"
)

// Vclass returns the simulator vehicle-class tag for this behaviour.
func (b Behaviour) Vclass() string {
	if b == Allow {
		return allowedClass
	}
	return disallowedClass
}

// AllowedClass returns the simulator vehicle-class tag for allowed vehicles.
func AllowedClass() string {
	return allowedClass
}

// DisallowedClass returns the simulator vehicle-class tag for disallowed vehicles.
func DisallowedClass() string {
	return disallowedClass
}

// BehaviourFromString converts a case-insensitive string ("allow", "deny")
// into a Behaviour. It returns a ValueError for anything else.
func BehaviourFromString(s string) (Behaviour, error) {
	switch Behaviour(strings.ToLower(s)) {
	case Allow:
		return Allow, nil
	case Deny:
		return Deny, nil
	default:
		return Deny, &ValueError{Kind: "behaviour", Value: s}
	}
}

// Operator represents the combinator applied to child-rule results.
type Operator string

const (
	// All requires every child rule to apply (logical AND).
	All Operator = "all"

	// Any requires at least one child rule to apply (logical OR).
	Any Operator = "any"
)

// Evaluate folds a sequence of boolean child results under this operator.
// Over an empty sequence All is vacuously true and Any vacuously false,
// matching the mathematical definitions of conjunction and disjunction.
func (op Operator) Evaluate(results []bool) bool {
	switch op {
	case All:
		for _, r := range results {
			if !r {
				return false
			}
		}
		return true
	case Any:
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// valid reports whether op is a known operator.
func (op Operator) valid() bool {
	return op == All || op == Any
}

// OperatorFromString converts a case-insensitive string ("all", "any")
// into an Operator. It returns a ValueError for anything else.
func OperatorFromString(s string) (Operator, error) {
	switch Operator(strings.ToLower(s)) {
	case All:
		return All, nil
	case Any:
		return Any, nil
	default:
		return Any, &ValueError{Kind: "operator", Value: s}
	}
}
