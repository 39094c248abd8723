/*
errors.go - Centralized error types for the balance engine

PURPOSE:
  All engine error kinds in one place. The taxonomy is deliberately small:

  1. NotFound    - record absent OR owned by someone else (indistinguishable)
  2. Validation  - malformed input, rejected before any posting occurs
  3. Consistency - an internal invariant broke mid-operation; the enclosing
                   store transaction must roll back completely

PROPAGATION:
  The engine never retries. The HTTP layer maps these to 404/400/500; the
  engine itself knows nothing about status codes.

USAGE:
  if ledger.IsNotFound(err) { ... }

  return &ledger.NotFoundError{Kind: "debt", ID: string(id)}
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a record is absent or not owned by the
	// caller. The two cases are indistinguishable on purpose: ownership
	// mismatch must not leak the existence of another owner's record.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed or out-of-range input,
	// always before any posting has happened.
	ErrValidation = errors.New("validation failed")

	// ErrConsistency is returned when an invariant breaks mid-operation,
	// e.g. a referenced account disappeared between load and post. The
	// whole store transaction rolls back.
	ErrConsistency = errors.New("consistency failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry record context
// =============================================================================

// NotFoundError identifies which kind of record was missing.
type NotFoundError struct {
	Kind string // "account", "transaction", "debt", ...
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError describes a rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConsistencyError describes a broken invariant.
type ConsistencyError struct {
	Op     string
	Detail string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency failure in %s: %s", e.Op, e.Detail)
}

func (e *ConsistencyError) Unwrap() error { return ErrConsistency }

// =============================================================================
// ERROR HELPERS
// =============================================================================

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsConsistency(err error) bool { return errors.Is(err, ErrConsistency) }
