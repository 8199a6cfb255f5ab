package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linkrift/linkrift/internal/links"
)

// MemoryLinkStore is an in-memory implementation of links.Repository.
// It enforces the same two uniqueness invariants as the Postgres store,
// so the service's conflict handling is exercised identically in tests.
type MemoryLinkStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*links.ShortLink
	byCode  map[links.Code]uuid.UUID
	byOwner map[string]uuid.UUID // userID + "\x00" + hash -> link id
}

// NewMemoryLinkStore creates a new in-memory link store.
func NewMemoryLinkStore() *MemoryLinkStore {
	return &MemoryLinkStore{
		byID:    make(map[uuid.UUID]*links.ShortLink),
		byCode:  make(map[links.Code]uuid.UUID),
		byOwner: make(map[string]uuid.UUID),
	}
}

func ownerKey(userID string, hash links.URLHash) string {
	return userID + "\x00" + string(hash)
}

func (m *MemoryLinkStore) Insert(_ context.Context, link *links.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byOwner[ownerKey(link.UserID, link.URLHash)]; ok {
		return &links.ConflictError{Constraint: links.ConstraintUserHash}
	}

	if _, ok := m.byCode[link.Code]; ok {
		return &links.ConflictError{Constraint: links.ConstraintCode}
	}

	stored := *link
	m.byID[link.ID] = &stored
	m.byCode[link.Code] = link.ID
	m.byOwner[ownerKey(link.UserID, link.URLHash)] = link.ID

	return nil
}

func (m *MemoryLinkStore) FindByUserAndHash(
	_ context.Context, userID string, hash links.URLHash,
) (*links.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byOwner[ownerKey(userID, hash)]
	if !ok {
		return nil, links.ErrNotFound
	}

	return copyLink(m.byID[id]), nil
}

func (m *MemoryLinkStore) FindByCode(_ context.Context, code links.Code) (*links.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byCode[code]
	if !ok {
		return nil, links.ErrNotFound
	}

	return copyLink(m.byID[id]), nil
}

func (m *MemoryLinkStore) ListByUser(_ context.Context, userID string) ([]links.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []links.ShortLink

	for _, link := range m.byID {
		if link.UserID == userID {
			result = append(result, *copyLink(link))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (m *MemoryLinkStore) Deactivate(_ context.Context, userID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.byID[id]
	if !ok || link.UserID != userID {
		return links.ErrNotFound
	}

	link.Active = false

	return nil
}

func (m *MemoryLinkStore) UpdateExpiry(
	_ context.Context, userID string, id uuid.UUID, expiresAt time.Time,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.byID[id]
	if !ok || link.UserID != userID {
		return links.ErrNotFound
	}

	at := expiresAt
	link.ExpiresAt = &at

	return nil
}

func copyLink(link *links.ShortLink) *links.ShortLink {
	dup := *link

	if link.ExpiresAt != nil {
		at := *link.ExpiresAt
		dup.ExpiresAt = &at
	}

	return &dup
}

// Compile-time check.
var _ links.Repository = (*MemoryLinkStore)(nil)
