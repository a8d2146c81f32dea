package identity

import (
	"context"
	"errors"

	"github.com/osworks/backend/internal/domain/billing"
	"github.com/osworks/backend/internal/domain/identity"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPlanName is the plan assigned at onboarding when none is named
const DefaultPlanName = "trial"

// TenantService handles tenant onboarding and lifecycle
type TenantService struct {
	tenantRepo       identity.TenantRepository
	profileRepo      identity.ProfileRepository
	userRepo         identity.UserRepository
	planRepo         billing.PlanRepository
	subscriptionRepo billing.SubscriptionRepository
	logger           *zap.Logger
}

// NewTenantService creates a new TenantService
func NewTenantService(
	tenantRepo identity.TenantRepository,
	profileRepo identity.ProfileRepository,
	userRepo identity.UserRepository,
	planRepo billing.PlanRepository,
	subscriptionRepo billing.SubscriptionRepository,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo:       tenantRepo,
		profileRepo:      profileRepo,
		userRepo:         userRepo,
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// Onboard creates a tenant with its admin profile, first user and a
// trial subscription on the requested plan.
func (s *TenantService) Onboard(ctx context.Context, req OnboardRequest) (*OnboardResult, error) {
	planName := req.PlanName
	if planName == "" {
		planName = DefaultPlanName
	}
	plan, err := s.planRepo.FindByName(ctx, planName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PLAN_NOT_FOUND", "Plan not found: "+planName)
		}
		return nil, err
	}

	tenant, err := identity.NewTenant(req.CompanyName, req.Document)
	if err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	adminProfile, err := identity.NewProfile(tenant.ID, identity.AdminProfileName,
		[]string{identity.PermissionWildcard})
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, adminProfile); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.AdminPassword)
	if err != nil {
		return nil, err
	}
	admin, err := identity.NewUser(tenant.ID, req.AdminName, req.AdminEmail, hash, adminProfile.ID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		return nil, err
	}

	subscription, err := billing.NewTrialSubscription(tenant.ID, plan.ID, billing.DefaultTrialDays)
	if err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, err
	}

	s.logger.Info("tenant onboarded",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("plan", plan.Name),
	)

	return &OnboardResult{
		TenantID:     tenant.ID,
		AdminUserID:  admin.ID,
		PlanID:       plan.ID,
		TrialEndsAt:  subscription.Fim,
		TenantName:   tenant.Name,
		AdminProfile: adminProfile.Name,
	}, nil
}

// Deactivate suspends a tenant. Data is kept; access is blocked at the
// auth layer on the next request.
func (s *TenantService) Deactivate(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	tenant.Deactivate()
	return s.tenantRepo.Save(ctx, tenant)
}

// Activate re-enables a suspended tenant
func (s *TenantService) Activate(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	tenant.Activate()
	return s.tenantRepo.Save(ctx, tenant)
}
