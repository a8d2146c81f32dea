package billing

import (
	"time"

	"github.com/osworks/backend/internal/domain/billing"
	"github.com/google/uuid"
)

// ChangePlanRequest moves a tenant to a different plan
type ChangePlanRequest struct {
	PlanName   string     `json:"plan_name" binding:"required"`
	ValidUntil *time.Time `json:"valid_until"`
}

// PlanResponse represents a plan in API responses
type PlanResponse struct {
	ID       uuid.UUID        `json:"id"`
	Name     string           `json:"name"`
	Limits   map[string]int64 `json:"limits"`
	Features map[string]bool  `json:"features"`
}

// ToPlanResponse converts a plan to its response representation
func ToPlanResponse(plan *billing.Plan) PlanResponse {
	return PlanResponse{
		ID:       plan.ID,
		Name:     plan.Name,
		Limits:   plan.Limits,
		Features: plan.Features,
	}
}

// SubscriptionStatusResponse represents a subscription with its plan
// and the derived read-only flag
type SubscriptionStatusResponse struct {
	ID       uuid.UUID    `json:"id"`
	TenantID uuid.UUID    `json:"tenant_id"`
	Status   string       `json:"status"`
	Inicio   time.Time    `json:"inicio"`
	Fim      *time.Time   `json:"fim,omitempty"`
	ReadOnly bool         `json:"read_only"`
	Plan     PlanResponse `json:"plan"`
}

// ToSubscriptionStatusResponse converts a subscription and its plan to
// the status representation, deriving read-only at the given instant
func ToSubscriptionStatusResponse(subscription *billing.Subscription, plan *billing.Plan, now time.Time) SubscriptionStatusResponse {
	return SubscriptionStatusResponse{
		ID:       subscription.ID,
		TenantID: subscription.TenantID,
		Status:   string(subscription.Status),
		Inicio:   subscription.Inicio,
		Fim:      subscription.Fim,
		ReadOnly: subscription.ReadOnly(now),
		Plan:     ToPlanResponse(plan),
	}
}
