// Package services holds the domain logic behind the HTTP controllers:
// tariff computation, document sequences, reception/invoice/transfer
// aggregates and the fiscal XML artifact.
package services

import "fmt"

// ValidationError reports malformed or out-of-range input as a field map.
// Never retried automatically.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// ConflictError reports a state conflict: mutation of an annulled reception,
// double invoicing, or a sequence-number race loser. Retryable distinguishes
// the race loser (regenerate and retry once) from terminal conflicts.
type ConflictError struct {
	Message   string
	Retryable bool
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError reports a missing id or one not owned by the caller's tenant.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// ArtifactError reports a fiscal XML generation failure after the invoice row
// is already committed. The invoice exists; only the artifact is missing.
type ArtifactError struct {
	InvoiceID uint
	Err       error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("invoice %d committed but xml artifact failed: %v", e.InvoiceID, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }
