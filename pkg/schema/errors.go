package schema

import (
	"fmt"

	"go.uber.org/multierr"
)

// ValidationError is one route parameter that failed its schema.
type ValidationError struct {
	Key    string
	Reason string
	Value  any
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %T)", e.Key, e.Reason, e.Value)
}

// NodeError locates a definition problem, e.g. "root.stack[1].tabs[feed]".
type NodeError struct {
	Path string
	Err  error
}

func (e *NodeError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *NodeError) Unwrap() error { return e.Err }

// Errors splits an aggregated error into its parts. A nil error yields nil.
func Errors(err error) []error {
	return multierr.Errors(err)
}
