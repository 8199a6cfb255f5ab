package quota

import "context"

// Plan is a named subscription tier.
type Plan string

const (
	// PlanFree is the default low-limit tier.
	PlanFree Plan = "FREE"
	// PlanPro is the paid high-limit tier.
	PlanPro Plan = "PRO"
)

// planLimits maps each tier to its monthly link-creation limit. This is
// static configuration, not a stored entity.
var planLimits = map[Plan]int{
	PlanFree: 50,
	PlanPro:  1000,
}

// Limit returns the monthly link-creation limit for the plan. Unknown plans
// fall back to the FREE limit.
func (p Plan) Limit() int {
	if limit, ok := planLimits[p]; ok {
		return limit
	}

	return planLimits[PlanFree]
}

// ParsePlan maps a stored plan name to a Plan, defaulting to FREE.
func ParsePlan(name string) Plan {
	if Plan(name) == PlanPro {
		return PlanPro
	}

	return PlanFree
}

// PlanResolver looks up the subscription plan of a user.
type PlanResolver interface {
	PlanFor(ctx context.Context, userID string) (Plan, error)
}

// StaticPlanResolver resolves plans from a fixed map, defaulting to FREE.
// Used in tests and as a fallback when no user store is configured.
type StaticPlanResolver struct {
	Plans map[string]Plan
}

func (r *StaticPlanResolver) PlanFor(_ context.Context, userID string) (Plan, error) {
	if plan, ok := r.Plans[userID]; ok {
		return plan, nil
	}

	return PlanFree, nil
}
