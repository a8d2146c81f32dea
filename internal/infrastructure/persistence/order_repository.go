package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/domain/service"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/osworks/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements service.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with items and history within the current tenant scope
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*service.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("History").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists orders matching the filter within the current tenant scope
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]service.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR client_name ILIKE ?", search, search)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orderModels []models.OrderModel
	if err := applyFilter(query, filter).Preload("Items").Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]service.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, total, nil
}

// Save persists an order with its items and status history
func (r *GormOrderRepository) Save(ctx context.Context, order *service.Order) error {
	var model models.OrderModel
	model.FromDomain(order)
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(&model).Error
}

// CountCreatedInMonth counts orders a tenant created within the
// calendar month containing ref. Used by the plan limit gate.
func (r *GormOrderRepository) CountCreatedInMonth(ctx context.Context, tenantID uuid.UUID, ref time.Time) (int64, error) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, 0)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, start, end).
		Count(&count).Error
	return count, err
}

// FindStalled returns a tenant's open orders whose last movement is
// before the cutoff. Last movement is the newest status-history row, or
// the order's own updated_at when that is more recent.
func (r *GormOrderRepository) FindStalled(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]service.Order, error) {
	var orderModels []models.OrderModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status IN ?", tenantID, service.OpenStatuses).
		Where(`GREATEST(updated_at, COALESCE(
			(SELECT MAX(h.created_at) FROM ordem_status_historico h WHERE h.order_id = ordens_servico.id),
			updated_at)) < ?`, cutoff).
		Preload("History").
		Find(&orderModels).Error
	if err != nil {
		return nil, err
	}

	orders := make([]service.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// NextNumber reserves the next sequential order number for a tenant in
// the given year, formatted as NNNN/YYYY.
func (r *GormOrderRepository) NextNumber(ctx context.Context, tenantID uuid.UUID, year int) (string, error) {
	var max int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("tenant_id = ? AND number LIKE ?", tenantID, fmt.Sprintf("%%/%d", year)).
		Select("COALESCE(MAX(CAST(SPLIT_PART(number, '/', 1) AS INTEGER)), 0)").
		Scan(&max).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d/%d", max+1, year), nil
}
