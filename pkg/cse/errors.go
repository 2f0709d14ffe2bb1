package cse

import "fmt"

// TypeError indicates an argument that does not satisfy the rule contract,
// such as a nil rule passed to AddRule.
type TypeError struct {
	Got string
}

// Error returns the error message.
func (e *TypeError) Error() string {
	return fmt.Sprintf("not a valid rule: %s", e.Got)
}
