package billing

import (
	"context"
	"time"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubscriptionStatus represents the lifecycle of a tenant subscription
type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionAtiva     SubscriptionStatus = "ativa"
	SubscriptionSuspensa  SubscriptionStatus = "suspensa"
	SubscriptionCancelada SubscriptionStatus = "cancelada"
)

// DefaultTrialDays is the trial length granted at onboarding
const DefaultTrialDays = 14

// Subscription links a tenant to a plan. One subscription per tenant.
// trial -> ativa -> (suspensa | cancelada); an expired trial puts the
// tenant in read-only mode without changing the stored status.
type Subscription struct {
	shared.TenantEntity
	PlanID uuid.UUID
	Status SubscriptionStatus
	Inicio time.Time
	Fim    *time.Time
}

// NewTrialSubscription creates a trial subscription starting now
func NewTrialSubscription(tenantID, planID uuid.UUID, trialDays int) (*Subscription, error) {
	if planID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan is required")
	}
	if trialDays <= 0 {
		trialDays = DefaultTrialDays
	}
	now := time.Now()
	fim := now.AddDate(0, 0, trialDays)
	return &Subscription{
		TenantEntity: shared.NewTenantEntity(tenantID),
		PlanID:       planID,
		Status:       SubscriptionTrial,
		Inicio:       now,
		Fim:          &fim,
	}, nil
}

// Activate moves the subscription to ativa (payment received)
func (s *Subscription) Activate(until *time.Time) {
	s.Status = SubscriptionAtiva
	s.Fim = until
	s.UpdatedAt = time.Now()
}

// Suspend moves the subscription to suspensa
func (s *Subscription) Suspend() {
	s.Status = SubscriptionSuspensa
	s.UpdatedAt = time.Now()
}

// Cancel moves the subscription to cancelada
func (s *Subscription) Cancel() {
	s.Status = SubscriptionCancelada
	s.UpdatedAt = time.Now()
}

// ReadOnly reports whether the tenant is blocked from mutating
// requests at the given instant: not ativa, and either terminally
// suspended/cancelled or a trial past its end date.
func (s *Subscription) ReadOnly(now time.Time) bool {
	switch s.Status {
	case SubscriptionAtiva:
		return false
	case SubscriptionSuspensa, SubscriptionCancelada:
		return true
	case SubscriptionTrial:
		return s.Fim != nil && now.After(*s.Fim)
	}
	return true
}

// SubscriptionRepository persists subscriptions
type SubscriptionRepository interface {
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*Subscription, error)
	Save(ctx context.Context, subscription *Subscription) error
}
