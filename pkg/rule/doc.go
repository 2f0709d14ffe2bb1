// Package rule implements composable overtaking-lane access rules.
//
// A rule is a named boolean predicate over a vehicle snapshot, optionally
// extended with an ordered list of child rules folded by an ALL/ANY
// combinator. Evaluating a rule against a vehicle yields whether the rule
// applies; applying a rule to a batch writes the rule's Behaviour
// classification tag onto every vehicle it applies to and leaves the rest
// untouched, so that under sequential application the last applicable rule
// wins.
//
// # Core Types
//
// Behaviour: the ALLOW/DENY outcome a rule assigns, mapped to the
// simulator's vehicle-class tags
//
// Operator: the ALL/ANY combinator folding child-rule results
//
// Rule: a predicate leaf (Universal, Null, VehicleType, Speed, Position)
// plus an optional child tree
//
// # Composition
//
// A rule applies to a vehicle iff its own predicate holds AND, when child
// rules are present, the combinator evaluation of the children holds. An
// empty child list imposes no constraint regardless of the combinator:
//
//	r, _ := rule.NewPosition(rule.BoundingBox{P2: vehicle.Position{X: 2500, Y: 2}}, false, rule.Deny)
//	child, _ := rule.NewMinimalSpeed(23.6, rule.Deny)
//	_ = r.AddChild(child)
//
// Children are owned exclusively by their parent; a rule must never be
// added as its own descendant, directly or transitively.
package rule
