package links

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/linkrift/linkrift/internal/quota"
	"go.uber.org/zap"
)

// maxCodeAttempts bounds the regenerate-and-retry loop on short code
// collisions. Collisions are practically negligible at the default code
// length; exhausting the cap surfaces ErrCodeSpaceExhausted.
const maxCodeAttempts = 5

// CodeGenerator produces a random, fixed-length, URL-safe short code.
// Uniqueness is enforced by the Repository, not the generator.
type CodeGenerator func() string

// Result is the outcome of a create-or-retrieve call.
type Result struct {
	Code Code
	// Existing is true when the user had already shortened this URL.
	Existing bool
	// Counted is true when the call charged the user's monthly quota,
	// i.e. exactly once per distinct (user, URL) pair.
	Counted bool
}

// Usage summarizes a user's link creation quota for the current month.
type Usage struct {
	Used      int64
	Limit     int
	Remaining int64
	Plan      quota.Plan
}

// Service orchestrates link creation: hash lookup, store read/write and
// quota gating. It is the only writer of ShortLink records.
type Service struct {
	repo         Repository
	gate         *quota.Gate
	plans        quota.PlanResolver
	generateCode CodeGenerator
	logger       *zap.Logger
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a link creation service.
func NewService(
	repo Repository,
	gate *quota.Gate,
	plans quota.PlanResolver,
	generator CodeGenerator,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		repo:         repo,
		gate:         gate,
		plans:        plans,
		generateCode: generator,
		logger:       logger,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create shortens a URL for a user, or returns the short code the user
// already holds for it.
//
// Repeated calls for the same (user, URL) pair converge to the same code,
// and quota is charged at most once per pair regardless of how many
// concurrent requests race for the first creation: the storage uniqueness
// constraint picks the winner, and losers fall back to the read path
// without incrementing the counter.
func (s *Service) Create(ctx context.Context, userID, originalURL string) (*Result, error) {
	if userID == "" || originalURL == "" {
		return nil, ErrMissingInput
	}

	hash := HashURL(originalURL)

	existing, err := s.repo.FindByUserAndHash(ctx, userID, hash)
	if err == nil {
		return &Result{Code: existing.Code, Existing: true, Counted: false}, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	plan, err := s.plans.PlanFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	check, err := s.gate.Check(ctx, userID, plan)
	if err != nil {
		return nil, err
	}

	if !check.Allowed {
		return nil, &quota.ExceededError{Limit: check.Limit}
	}

	for range maxCodeAttempts {
		link := &ShortLink{
			ID:          uuid.New(),
			UserID:      userID,
			OriginalURL: originalURL,
			URLHash:     hash,
			Code:        Code(s.generateCode()),
			CreatedAt:   s.now(),
			Active:      true,
		}

		err := s.repo.Insert(ctx, link)
		if err == nil {
			s.chargeQuota(ctx, userID)

			return &Result{Code: link.Code, Existing: false, Counted: true}, nil
		}

		var conflict *ConflictError
		if !errors.As(err, &conflict) {
			return nil, err
		}

		if conflict.Constraint == ConstraintUserHash {
			// A concurrent request for the same (user, URL) won the race.
			// Defer to the winner and do not charge quota again.
			winner, ferr := s.repo.FindByUserAndHash(ctx, userID, hash)
			if ferr != nil {
				return nil, ferr
			}

			return &Result{Code: winner.Code, Existing: true, Counted: false}, nil
		}

		// Short code collision: regenerate and retry.
	}

	return nil, ErrCodeSpaceExhausted
}

// chargeQuota increments the monthly counter after a successful insert. The
// link row is the source of truth: a failed increment under-counts rather
// than failing a creation that already happened.
func (s *Service) chargeQuota(ctx context.Context, userID string) {
	if err := s.gate.Increment(ctx, userID); err != nil {
		s.logger.Error("quota increment failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

// Resolve returns the active, unexpired link behind a short code.
// Deactivated and expired links resolve as ErrNotFound.
func (s *Service) Resolve(ctx context.Context, code Code) (*ShortLink, error) {
	link, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !link.Active || link.Expired(s.now()) {
		return nil, ErrNotFound
	}

	return link, nil
}

// Links returns all links owned by a user, newest first.
func (s *Service) Links(ctx context.Context, userID string) ([]ShortLink, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Deactivate clears the active flag on a link the user owns.
func (s *Service) Deactivate(ctx context.Context, userID string, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, userID, id)
}

// ExtendExpiry sets a new expiry timestamp on a link the user owns.
// Expiry extension is gated by plan: only PRO users may call it.
func (s *Service) ExtendExpiry(ctx context.Context, userID string, id uuid.UUID, until time.Time) error {
	if !until.After(s.now()) {
		return ErrInvalidExpiry
	}

	plan, err := s.plans.PlanFor(ctx, userID)
	if err != nil {
		return err
	}

	if plan != quota.PlanPro {
		return ErrPlanRequired
	}

	return s.repo.UpdateExpiry(ctx, userID, id, until)
}

// UsageFor reports the user's current month quota consumption.
func (s *Service) UsageFor(ctx context.Context, userID string) (*Usage, error) {
	plan, err := s.plans.PlanFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	used, err := s.gate.Usage(ctx, userID)
	if err != nil {
		return nil, err
	}

	limit := plan.Limit()

	remaining := int64(limit) - used
	if remaining < 0 {
		remaining = 0
	}

	return &Usage{Used: used, Limit: limit, Remaining: remaining, Plan: plan}, nil
}
