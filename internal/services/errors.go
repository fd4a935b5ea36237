package services

import "fmt"

// ValidationError indicates a booking request that failed a business
// invariant before any provider was contacted. It maps to HTTP 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// UnsupportedMethodError indicates an unrecognized payment method.
// Like ValidationError it is raised before any provider call and maps to
// HTTP 400.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("unsupported payment method: %q", e.Method)
}
