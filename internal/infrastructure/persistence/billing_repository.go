package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/domain/billing"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/osworks/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPlanRepository implements billing.PlanRepository using GORM.
// Plans are global rows; no tenant scoping applies.
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByID finds a plan by its ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByName finds a plan by name
func (r *GormPlanRepository) FindByName(ctx context.Context, name string) (*billing.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// Save persists a plan
func (r *GormPlanRepository) Save(ctx context.Context, plan *billing.Plan) error {
	var model models.PlanModel
	if err := model.FromDomain(plan); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// GormSubscriptionRepository implements billing.SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindByTenant finds a tenant's subscription. Takes an explicit tenant
// ID because the gate middleware resolves it before the request scope
// is trusted.
func (r *GormSubscriptionRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, subscription *billing.Subscription) error {
	var model models.SubscriptionModel
	model.FromDomain(subscription)
	return r.db.WithContext(ctx).Save(&model).Error
}
