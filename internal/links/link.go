package links

import (
	"time"

	"github.com/google/uuid"
)

// Code represents a short link code.
type Code string

// URLHash represents the identity hash of a submitted URL.
type URLHash string

// ShortLink represents one shortenable destination owned by one user.
//
// At most one ShortLink exists per (UserID, URLHash) pair, and Code is
// globally unique. Both invariants are enforced by the Repository, not here.
type ShortLink struct {
	ID          uuid.UUID
	UserID      string
	OriginalURL string
	URLHash     URLHash
	Code        Code
	CreatedAt   time.Time
	ExpiresAt   *time.Time // nil means the link never expires
	Active      bool
}

// Expired reports whether the link's expiry timestamp has passed at time t.
func (l *ShortLink) Expired(t time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(t)
}
