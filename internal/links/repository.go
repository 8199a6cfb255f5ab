package links

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for ShortLink storage.
//
// Implementations must enforce the (user, hash) and short-code uniqueness
// invariants at the storage layer so that concurrent Insert calls cannot
// both succeed for the same pair; the loser receives a *ConflictError.
type Repository interface {
	// FindByUserAndHash returns the link a user already created for a URL
	// hash, or ErrNotFound.
	FindByUserAndHash(ctx context.Context, userID string, hash URLHash) (*ShortLink, error)

	// FindByCode returns the link with the given short code, or ErrNotFound.
	FindByCode(ctx context.Context, code Code) (*ShortLink, error)

	// Insert persists a fully populated candidate record. It returns a
	// *ConflictError when a concurrent insert won the race on either
	// uniqueness constraint.
	Insert(ctx context.Context, link *ShortLink) error

	// ListByUser returns all links owned by a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]ShortLink, error)

	// Deactivate clears the active flag on a link owned by the user.
	// Returns ErrNotFound when no such link exists for that owner.
	Deactivate(ctx context.Context, userID string, id uuid.UUID) error

	// UpdateExpiry sets the expiry timestamp on a link owned by the user.
	// Returns ErrNotFound when no such link exists for that owner.
	UpdateExpiry(ctx context.Context, userID string, id uuid.UUID, expiresAt time.Time) error
}
