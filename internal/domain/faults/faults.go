package faults

import "fmt"

// ValidationError is returned when a required field is missing or out of range.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
// PRE: e.Message is set.
// POST: returns the validation error message string.
// INVARIANT: message is never empty for a valid ValidationError.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return "validation failed: " + e.Message
}

// NotFoundError is returned when an operation targets a record that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

// Error implements the error interface.
// PRE: e.Kind and e.ID are set.
// POST: returns a message naming the missing record.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// InsufficientSessionsError is returned when a check-in is attempted against a
// session-based member with zero sessions remaining.
type InsufficientSessionsError struct {
	MemberID string
}

// Error implements the error interface.
// PRE: e.MemberID is set.
// POST: returns a message distinct from "already checked in today" so the UI
// can surface the right prompt.
func (e *InsufficientSessionsError) Error() string {
	return "no sessions remaining for member " + e.MemberID
}

// PersistenceError is returned when a write succeeded at the call site but
// failed verification on read-back, or the underlying store errored.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

// Error implements the error interface.
// PRE: e.Op is set; e.Err may be nil for verification mismatches.
// POST: returns a message naming the failed operation and key.
func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("persistence failure during %s of %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("persistence failure during %s of %s: read-back verification mismatch", e.Op, e.Key)
}

// Unwrap exposes the underlying store error for errors.Is checks.
func (e *PersistenceError) Unwrap() error { return e.Err }
