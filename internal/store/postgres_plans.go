package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linkrift/linkrift/internal/quota"
)

// PostgresPlanResolver resolves subscription plans from the users table.
type PostgresPlanResolver struct {
	pool *pgxpool.Pool
}

// NewPostgresPlanResolver creates a new PostgreSQL-backed plan resolver.
func NewPostgresPlanResolver(pool *pgxpool.Pool) *PostgresPlanResolver {
	return &PostgresPlanResolver{pool: pool}
}

// PlanFor returns the user's subscription plan. Users without a row resolve
// to FREE so quota still gates them conservatively.
func (r *PostgresPlanResolver) PlanFor(ctx context.Context, userID string) (quota.Plan, error) {
	query := `
		SELECT subscription_plan
		FROM users
		WHERE id = $1
	`

	var plan string

	err := r.pool.QueryRow(ctx, query, userID).Scan(&plan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return quota.PlanFree, nil
		}

		return "", storageErr(err)
	}

	return quota.ParsePlan(plan), nil
}

// Compile-time check.
var _ quota.PlanResolver = (*PostgresPlanResolver)(nil)
