package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linkrift/linkrift/internal/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureStore struct {
	entries []*audit.Entry
	err     error
}

func (s *captureStore) SaveEntry(_ context.Context, entry *audit.Entry) error {
	if s.err != nil {
		return s.err
	}

	s.entries = append(s.entries, entry)

	return nil
}

func TestRecorder_HandleLinkCreated(t *testing.T) {
	t.Run("records a creation entry", func(t *testing.T) {
		store := &captureStore{}
		recorder := audit.NewRecorder(store, zap.NewNop())

		createdAt := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
		err := recorder.HandleLinkCreated(context.Background(), &audit.LinkCreatedEvent{
			UserID:      "u1",
			ShortCode:   "abc12345",
			OriginalURL: "https://example.com/a",
			CreatedAt:   createdAt,
			ClientIP:    "203.0.113.7",
			UserAgent:   "curl/8.0",
		})

		require.NoError(t, err)
		require.Len(t, store.entries, 1)

		entry := store.entries[0]
		assert.NotEqual(t, [16]byte{}, [16]byte(entry.ID))
		assert.Equal(t, "u1", entry.UserID)
		assert.Equal(t, audit.ActionLinkCreated, entry.Action)
		assert.Equal(t, "abc12345", entry.Details["shortCode"])
		assert.Equal(t, "https://example.com/a", entry.Details["originalUrl"])
		assert.Equal(t, "curl/8.0", entry.Details["userAgent"])
		assert.Equal(t, createdAt, entry.Timestamp)
		assert.Equal(t, "203.0.113.7", entry.IPAddress)
	})

	t.Run("propagates store failures", func(t *testing.T) {
		wantErr := errors.New("db down")
		recorder := audit.NewRecorder(&captureStore{err: wantErr}, zap.NewNop())

		err := recorder.HandleLinkCreated(context.Background(), &audit.LinkCreatedEvent{UserID: "u1"})

		assert.ErrorIs(t, err, wantErr)
	})
}

func TestRecorder_HandleLinkDeactivated(t *testing.T) {
	t.Run("records a deactivation entry", func(t *testing.T) {
		store := &captureStore{}
		recorder := audit.NewRecorder(store, zap.NewNop())

		err := recorder.HandleLinkDeactivated(context.Background(), &audit.LinkDeactivatedEvent{
			UserID:        "u1",
			LinkID:        "8b9d7f1e-0000-0000-0000-000000000000",
			DeactivatedAt: time.Now(),
			ClientIP:      "203.0.113.7",
		})

		require.NoError(t, err)
		require.Len(t, store.entries, 1)

		entry := store.entries[0]
		assert.Equal(t, audit.ActionLinkDeactivated, entry.Action)
		assert.Equal(t, "8b9d7f1e-0000-0000-0000-000000000000", entry.Details["linkId"])
	})
}
