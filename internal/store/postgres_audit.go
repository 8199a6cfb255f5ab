package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linkrift/linkrift/internal/audit"
)

// PostgresAuditStore persists audit entries to the audit_logs table.
type PostgresAuditStore struct {
	pool *pgxpool.Pool
}

// NewPostgresAuditStore creates a new PostgreSQL-backed audit store.
func NewPostgresAuditStore(pool *pgxpool.Pool) *PostgresAuditStore {
	return &PostgresAuditStore{pool: pool}
}

func (s *PostgresAuditStore) SaveEntry(ctx context.Context, entry *audit.Entry) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, details, timestamp, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	details, err := json.Marshal(entry.Details)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		details,
		entry.Timestamp,
		entry.IPAddress,
	)
	if err != nil {
		return storageErr(err)
	}

	return nil
}

// Compile-time check.
var _ audit.Store = (*PostgresAuditStore)(nil)
