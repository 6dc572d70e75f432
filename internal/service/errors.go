package service

import "fmt"

// ValidationError rejects malformed input: negative quantity, inverted
// rental window, unknown role, zero-length window.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// OversellError signals that a reservation would exceed free stock for the
// requested window. Available carries the quantity still free so callers can
// surface it to the customer.
type OversellError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *OversellError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

// StateError rejects a lifecycle transition from the wrong state, such as
// confirming an already-confirmed quotation.
type StateError struct {
	Entity  string
	Current string
	Action  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s %s in status %q", e.Action, e.Entity, e.Current)
}

// PermissionError rejects an action the actor's role does not allow.
type PermissionError struct {
	Role   string
	Action string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("role %q may not %s", e.Role, e.Action)
}
