package audit

import "time"

// Topics for link lifecycle audit events.
const (
	TopicLinkCreated     = "link.created"
	TopicLinkDeactivated = "link.deactivated"
)

// LinkCreatedEvent is emitted when a new short link is created. Dedup hits
// do not emit it: only creations that charged quota appear in the trail.
type LinkCreatedEvent struct {
	UserID      string    `json:"userId"`
	ShortCode   string    `json:"shortCode"`
	OriginalURL string    `json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// LinkDeactivatedEvent is emitted when a user deactivates a link.
type LinkDeactivatedEvent struct {
	UserID        string    `json:"userId"`
	LinkID        string    `json:"linkId"`
	DeactivatedAt time.Time `json:"deactivatedAt"`
	ClientIP      string    `json:"clientIp"`
}
