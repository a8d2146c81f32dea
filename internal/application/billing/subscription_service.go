// Package billing implements subscription and plan queries for the
// access gates: read-only status, feature flags and numeric limits.
package billing

import (
	"context"
	"errors"
	"time"

	"github.com/osworks/backend/internal/domain/billing"
	"github.com/osworks/backend/internal/domain/identity"
	"github.com/osworks/backend/internal/domain/service"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LimitCheck carries the outcome of a limit gate evaluation
type LimitCheck struct {
	Allowed bool
	Current int64
	Max     int64
}

// SubscriptionService answers the questions the gate middleware asks
// on every request: is the tenant read-only, does its plan carry a
// feature, is a counted resource still under its ceiling.
type SubscriptionService struct {
	subscriptionRepo billing.SubscriptionRepository
	planRepo         billing.PlanRepository
	userRepo         identity.UserRepository
	orderRepo        service.OrderRepository
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	subscriptionRepo billing.SubscriptionRepository,
	planRepo billing.PlanRepository,
	userRepo identity.UserRepository,
	orderRepo service.OrderRepository,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		userRepo:         userRepo,
		orderRepo:        orderRepo,
	}
}

func (s *SubscriptionService) load(ctx context.Context, tenantID uuid.UUID) (*billing.Subscription, *billing.Plan, error) {
	subscription, err := s.subscriptionRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	plan, err := s.planRepo.FindByID(ctx, subscription.PlanID)
	if err != nil {
		return nil, nil, err
	}
	return subscription, plan, nil
}

// Status returns the tenant's subscription with its plan and the
// derived read-only flag
func (s *SubscriptionService) Status(ctx context.Context, tenantID uuid.UUID) (*SubscriptionStatusResponse, error) {
	subscription, plan, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response := ToSubscriptionStatusResponse(subscription, plan, time.Now())
	return &response, nil
}

// IsReadOnly reports whether the tenant is blocked from mutating
// requests. A tenant without a subscription record is read-only.
func (s *SubscriptionService) IsReadOnly(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	subscription, err := s.subscriptionRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return subscription.ReadOnly(time.Now()), nil
}

// HasFeature reports whether the tenant's plan enables a feature flag
func (s *SubscriptionService) HasFeature(ctx context.Context, tenantID uuid.UUID, feature string) (bool, error) {
	_, plan, err := s.load(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return plan.HasFeature(feature), nil
}

// CheckLimit evaluates a numeric ceiling against the current usage
// count. Limits at zero or below mean unlimited; otherwise creation is
// denied once count >= limit.
func (s *SubscriptionService) CheckLimit(ctx context.Context, tenantID uuid.UUID, key string) (*LimitCheck, error) {
	_, plan, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if plan.IsUnlimited(key) {
		return &LimitCheck{Allowed: true, Max: 0}, nil
	}

	current, err := s.count(ctx, tenantID, key)
	if err != nil {
		return nil, err
	}
	max := plan.Limit(key)
	return &LimitCheck{
		Allowed: current < max,
		Current: current,
		Max:     max,
	}, nil
}

func (s *SubscriptionService) count(ctx context.Context, tenantID uuid.UUID, key string) (int64, error) {
	switch key {
	case billing.LimitMaxUsuarios:
		return s.userRepo.CountActive(ctx, tenantID)
	case billing.LimitMaxOSMes:
		return s.orderRepo.CountCreatedInMonth(ctx, tenantID, time.Now())
	default:
		return 0, shared.NewDomainError("UNKNOWN_LIMIT", "Unknown limit key: "+key)
	}
}

// ChangePlan moves the tenant's subscription to a different plan and
// activates it
func (s *SubscriptionService) ChangePlan(ctx context.Context, tenantID uuid.UUID, req *ChangePlanRequest) (*SubscriptionStatusResponse, error) {
	subscription, err := s.subscriptionRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.FindByName(ctx, req.PlanName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PLAN_NOT_FOUND", "Plan not found: "+req.PlanName)
		}
		return nil, err
	}

	subscription.PlanID = plan.ID
	var until *time.Time
	if req.ValidUntil != nil {
		until = req.ValidUntil
	}
	subscription.Activate(until)
	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, err
	}

	response := ToSubscriptionStatusResponse(subscription, plan, time.Now())
	return &response, nil
}

// Suspend suspends the tenant's subscription
func (s *SubscriptionService) Suspend(ctx context.Context, tenantID uuid.UUID) error {
	subscription, err := s.subscriptionRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	subscription.Suspend()
	return s.subscriptionRepo.Save(ctx, subscription)
}
