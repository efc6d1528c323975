package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Snapshot record errors

// MalformedInputError describes a single snapshot record that was dropped.
// It is reported, never propagated: one bad record must not abort the turn.
type MalformedInputError struct {
	*DomainError
	Kind string
	ID   string
}

func NewMalformedInputError(kind, id, reason string) *MalformedInputError {
	return &MalformedInputError{
		DomainError: &DomainError{Message: fmt.Sprintf("malformed %s %q: %s", kind, id, reason)},
		Kind:        kind,
		ID:          id,
	}
}

// StaleReferenceError describes a task or reservation pointing at an entity
// that is no longer present in the snapshot. Resolved by reconciliation.
type StaleReferenceError struct {
	*DomainError
	UnitID string
	Target string
}

func NewStaleReferenceError(unitID, target string) *StaleReferenceError {
	return &StaleReferenceError{
		DomainError: &DomainError{Message: fmt.Sprintf("unit %s references stale target %s", unitID, target)},
		UnitID:      unitID,
		Target:      target,
	}
}
