package rulecfg

import "fmt"

// ConfigError indicates a declarative rule specification that cannot be
// built: an unknown variant or combinator name, a missing or ill-typed
// argument, or a leaf construction invariant violation. Construction is
// atomic; a ConfigError means no rules from the batch were installed.
type ConfigError struct {
	// Path locates the offending record, e.g. "rules[0].subrules[1]".
	Path string

	// Reason describes what is wrong with the record.
	Reason string

	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}
