package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linkrift/linkrift/internal/links"
)

// Index names from the short_links migration. Postgres reports them as the
// constraint name on unique violations, which is how Insert tells a dedup
// race apart from a short code collision.
const (
	constraintUserHash  = "user_url_hash_idx"
	constraintShortCode = "short_code_idx"
)

// uniqueViolation is the Postgres error code for unique constraint breaches.
const uniqueViolation = "23505"

// PostgresLinkStore is a PostgreSQL implementation of links.Repository.
type PostgresLinkStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLinkStore creates a new PostgreSQL-backed link store.
func NewPostgresLinkStore(pool *pgxpool.Pool) *PostgresLinkStore {
	return &PostgresLinkStore{pool: pool}
}

func (p *PostgresLinkStore) Insert(ctx context.Context, link *links.ShortLink) error {
	query := `
		INSERT INTO short_links (id, user_id, original_url, original_url_hash, short_code, created_at, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := p.pool.Exec(ctx, query,
		link.ID,
		link.UserID,
		link.OriginalURL,
		string(link.URLHash),
		string(link.Code),
		link.CreatedAt,
		link.ExpiresAt,
		link.Active,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == constraintUserHash {
				return &links.ConflictError{Constraint: links.ConstraintUserHash}
			}

			return &links.ConflictError{Constraint: links.ConstraintCode}
		}

		return storageErr(err)
	}

	return nil
}

func (p *PostgresLinkStore) FindByUserAndHash(
	ctx context.Context, userID string, hash links.URLHash,
) (*links.ShortLink, error) {
	query := `
		SELECT id, user_id, original_url, original_url_hash, short_code, created_at, expires_at, is_active
		FROM short_links
		WHERE user_id = $1 AND original_url_hash = $2
	`

	return p.queryOne(ctx, query, userID, string(hash))
}

func (p *PostgresLinkStore) FindByCode(ctx context.Context, code links.Code) (*links.ShortLink, error) {
	query := `
		SELECT id, user_id, original_url, original_url_hash, short_code, created_at, expires_at, is_active
		FROM short_links
		WHERE short_code = $1
	`

	return p.queryOne(ctx, query, string(code))
}

func (p *PostgresLinkStore) ListByUser(ctx context.Context, userID string) ([]links.ShortLink, error) {
	query := `
		SELECT id, user_id, original_url, original_url_hash, short_code, created_at, expires_at, is_active
		FROM short_links
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := p.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var result []links.ShortLink

	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}

		result = append(result, *link)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}

	return result, nil
}

func (p *PostgresLinkStore) Deactivate(ctx context.Context, userID string, id uuid.UUID) error {
	query := `
		UPDATE short_links
		SET is_active = FALSE
		WHERE id = $1 AND user_id = $2
	`

	tag, err := p.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return storageErr(err)
	}

	if tag.RowsAffected() == 0 {
		return links.ErrNotFound
	}

	return nil
}

func (p *PostgresLinkStore) UpdateExpiry(
	ctx context.Context, userID string, id uuid.UUID, expiresAt time.Time,
) error {
	query := `
		UPDATE short_links
		SET expires_at = $3
		WHERE id = $1 AND user_id = $2
	`

	tag, err := p.pool.Exec(ctx, query, id, userID, expiresAt)
	if err != nil {
		return storageErr(err)
	}

	if tag.RowsAffected() == 0 {
		return links.ErrNotFound
	}

	return nil
}

func (p *PostgresLinkStore) queryOne(ctx context.Context, query string, args ...any) (*links.ShortLink, error) {
	link, err := scanLink(p.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, links.ErrNotFound
		}

		return nil, storageErr(err)
	}

	return link, nil
}

func scanLink(row pgx.Row) (*links.ShortLink, error) {
	var (
		link      links.ShortLink
		hash      string
		code      string
		expiresAt *time.Time
	)

	err := row.Scan(
		&link.ID,
		&link.UserID,
		&link.OriginalURL,
		&hash,
		&code,
		&link.CreatedAt,
		&expiresAt,
		&link.Active,
	)
	if err != nil {
		return nil, err
	}

	link.URLHash = links.URLHash(hash)
	link.Code = links.Code(code)
	link.ExpiresAt = expiresAt

	return &link, nil
}

// storageErr maps connectivity failures to links.ErrStorageUnavailable and
// passes everything else through unchanged.
func storageErr(err error) error {
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		pgconn.Timeout(err),
		errors.As(err, &netErr):
		return fmt.Errorf("%w: %v", links.ErrStorageUnavailable, err)
	}

	return err
}

// Compile-time check.
var _ links.Repository = (*PostgresLinkStore)(nil)
