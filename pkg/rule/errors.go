package rule

import "fmt"

// TypeError indicates an argument that does not satisfy the rule contract,
// such as a nil or zero-value rule passed to AddChild.
type TypeError struct {
	Got string
}

// Error returns the error message.
func (e *TypeError) Error() string {
	return fmt.Sprintf("not a valid rule: %s", e.Got)
}

// ValueError indicates an enum-like argument with no matching member.
type ValueError struct {
	Kind  string
	Value string
}

// Error returns the error message.
func (e *ValueError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Value)
}

// ConstructionError indicates a leaf rule whose construction invariant is
// violated, such as an inverted speed range or a degenerate bounding box.
type ConstructionError struct {
	RuleKind Kind
	Reason   string
}

// Error returns the error message.
func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cannot construct %s rule: %s", e.RuleKind, e.Reason)
}
