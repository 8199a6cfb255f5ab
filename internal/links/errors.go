package links

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no link matches the lookup.
	ErrNotFound = errors.New("link not found")

	// ErrMissingInput is returned when the URL or user identifier is empty.
	ErrMissingInput = errors.New("originalUrl and userId are required")

	// ErrInvalidExpiry is returned when an expiry timestamp is not in the
	// future.
	ErrInvalidExpiry = errors.New("expiry timestamp must be in the future")

	// ErrStorageUnavailable wraps backend connectivity failures. Requests
	// failing with it left no partial state behind and are safe to retry.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrCodeSpaceExhausted is returned when generated codes kept colliding
	// past the retry cap.
	ErrCodeSpaceExhausted = errors.New("short code space exhausted")

	// ErrPlanRequired is returned when an operation is gated behind a higher
	// subscription plan.
	ErrPlanRequired = errors.New("operation requires the PRO plan")
)

// Constraint identifies which storage uniqueness constraint was violated.
type Constraint string

const (
	// ConstraintUserHash is the per-user URL dedup constraint.
	ConstraintUserHash Constraint = "user_url_hash"
	// ConstraintCode is the global short code constraint.
	ConstraintCode Constraint = "short_code"
)

// ConflictError is returned by Repository.Insert when a concurrent writer
// already persisted a row the new one would duplicate. It is always recovered
// inside the Service and never reaches the HTTP boundary.
type ConflictError struct {
	Constraint Constraint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("uniqueness conflict on %s", e.Constraint)
}
