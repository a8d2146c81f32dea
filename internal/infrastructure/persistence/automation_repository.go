package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/domain/automation"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/osworks/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRuleRepository implements automation.RuleRepository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GormRuleRepository
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// FindEnabled returns the enabled rule for a tenant and event, or
// shared.ErrNotFound when the rule is absent or disabled.
func (r *GormRuleRepository) FindEnabled(ctx context.Context, tenantID uuid.UUID, event string) (*automation.Rule, error) {
	var model models.RuleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND event = ? AND enabled = ?", tenantID, event, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByTenant lists all rules of a tenant
func (r *GormRuleRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]automation.Rule, error) {
	var ruleModels []models.RuleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("event").
		Find(&ruleModels).Error; err != nil {
		return nil, err
	}

	rules := make([]automation.Rule, 0, len(ruleModels))
	for i := range ruleModels {
		rule, err := ruleModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, nil
}

// FindTenantsWithEnabled returns every tenant's enabled rule for an
// event. Runs unscoped: the scheduled evaluator iterates tenants.
func (r *GormRuleRepository) FindTenantsWithEnabled(ctx context.Context, event string) ([]automation.Rule, error) {
	var ruleModels []models.RuleModel
	if err := r.db.WithContext(ctx).Unscoped().
		Where("event = ? AND enabled = ?", event, true).
		Find(&ruleModels).Error; err != nil {
		return nil, err
	}

	rules := make([]automation.Rule, 0, len(ruleModels))
	for i := range ruleModels {
		rule, err := ruleModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, nil
}

// Save persists a rule
func (r *GormRuleRepository) Save(ctx context.Context, rule *automation.Rule) error {
	var model models.RuleModel
	if err := model.FromDomain(rule); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// GormExecutionRepository implements automation.ExecutionRepository using GORM
type GormExecutionRepository struct {
	db *gorm.DB
}

// NewGormExecutionRepository creates a new GormExecutionRepository
func NewGormExecutionRepository(db *gorm.DB) *GormExecutionRepository {
	return &GormExecutionRepository{db: db}
}

// FindByID finds an execution by its ID. Runs unscoped: the worker
// loads executions outside any tenant request scope.
func (r *GormExecutionRepository) FindByID(ctx context.Context, id uuid.UUID) (*automation.Execution, error) {
	var model models.ExecutionModel
	if err := r.db.WithContext(ctx).Unscoped().
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTenant lists a tenant's executions matching the filter
func (r *GormExecutionRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]automation.Execution, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ExecutionModel{}).
		Where("tenant_id = ?", tenantID)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if event, ok := filter.Filters["event"]; ok {
		query = query.Where("event = ?", event)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var executionModels []models.ExecutionModel
	if err := applyFilter(query, filter).Find(&executionModels).Error; err != nil {
		return nil, 0, err
	}

	executions := make([]automation.Execution, len(executionModels))
	for i, model := range executionModels {
		executions[i] = *model.ToDomain()
	}
	return executions, total, nil
}

// Save persists an execution. Runs unscoped for the same reason as
// FindByID; the tenant_id on the row itself keeps ownership intact.
func (r *GormExecutionRepository) Save(ctx context.Context, execution *automation.Execution) error {
	var model models.ExecutionModel
	model.FromDomain(execution)
	return r.db.WithContext(ctx).Unscoped().Save(&model).Error
}
