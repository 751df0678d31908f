// Package validation provides input validation helpers and the shared
// ValidationError type returned by the pure core packages (pagination, audit log
// filtering, assessment workflow) when a caller supplies a bad field value.
// Handlers map ValidationError to HTTP 400 with the offending field named.
package validation

import "fmt"

// ValidationError reports a single invalid input field. Field names the offending
// parameter as the client supplied it (e.g. "severity", "page"); Value is the raw
// rejected value.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// NewValidationError builds a ValidationError for the given field and value.
func NewValidationError(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}
