package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actions recorded in the audit trail.
const (
	ActionLinkCreated     = "link_created"
	ActionLinkDeactivated = "link_deactivated"
)

// Entry is one row of the audit trail.
type Entry struct {
	ID        uuid.UUID
	UserID    string
	Action    string
	Details   map[string]any
	Timestamp time.Time
	IPAddress string
}

// Store defines the interface for persisting audit entries.
type Store interface {
	SaveEntry(ctx context.Context, entry *Entry) error
}

// Recorder turns link lifecycle events into audit entries. Its Handle
// methods satisfy messaging.Handler and run in the consumer binary.
type Recorder struct {
	store  Store
	logger *zap.Logger
}

// NewRecorder creates a new audit recorder.
func NewRecorder(store Store, logger *zap.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// HandleLinkCreated records a link creation.
func (r *Recorder) HandleLinkCreated(ctx context.Context, event *LinkCreatedEvent) error {
	entry := &Entry{
		ID:     uuid.New(),
		UserID: event.UserID,
		Action: ActionLinkCreated,
		Details: map[string]any{
			"shortCode":   event.ShortCode,
			"originalUrl": event.OriginalURL,
			"userAgent":   event.UserAgent,
		},
		Timestamp: event.CreatedAt,
		IPAddress: event.ClientIP,
	}

	if err := r.store.SaveEntry(ctx, entry); err != nil {
		return err
	}

	r.logger.Debug("audit entry recorded",
		zap.String("action", entry.Action),
		zap.String("user_id", entry.UserID),
	)

	return nil
}

// HandleLinkDeactivated records a link deactivation.
func (r *Recorder) HandleLinkDeactivated(ctx context.Context, event *LinkDeactivatedEvent) error {
	entry := &Entry{
		ID:     uuid.New(),
		UserID: event.UserID,
		Action: ActionLinkDeactivated,
		Details: map[string]any{
			"linkId": event.LinkID,
		},
		Timestamp: event.DeactivatedAt,
		IPAddress: event.ClientIP,
	}

	return r.store.SaveEntry(ctx, entry)
}
