package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/domain/finance"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/osworks/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerRepository implements finance.LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// FindByID finds a ledger entry by its ID within the current tenant scope
func (r *GormLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists ledger entries matching the filter within the current tenant scope
func (r *GormLedgerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.LedgerEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{})
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if clientID, ok := filter.Filters["client_id"]; ok {
		query = query.Where("client_id = ?", clientID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entryModels []models.LedgerEntryModel
	if err := applyFilter(query, filter).Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]finance.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, total, nil
}

// Save persists a ledger entry
func (r *GormLedgerRepository) Save(ctx context.Context, entry *finance.LedgerEntry) error {
	var model models.LedgerEntryModel
	model.FromDomain(entry)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindPendingDueOn returns a tenant's pending entries whose due date
// falls on the given day. Used by the scheduled evaluator.
func (r *GormLedgerRepository) FindPendingDueOn(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]finance.LedgerEntry, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var entryModels []models.LedgerEntryModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND due_date >= ? AND due_date < ?",
			tenantID, string(finance.LedgerStatusPendente), start, end).
		Find(&entryModels).Error
	if err != nil {
		return nil, err
	}

	entries := make([]finance.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// GormPaymentRepository implements finance.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID within the current tenant scope
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLedgerEntry finds the payment attached to a ledger entry
func (r *GormPaymentRepository) FindByLedgerEntry(ctx context.Context, ledgerEntryID uuid.UUID) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("ledger_entry_id = ?", ledgerEntryID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	var model models.PaymentModel
	model.FromDomain(payment)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindPendingForResend returns pending payments across all tenants
// whose last notification is older than the cutoff (or never sent) and
// whose ledger entry is old enough and still pending. Runs unscoped:
// the resend job iterates every tenant.
func (r *GormPaymentRepository) FindPendingForResend(ctx context.Context, cutoff, minLedgerAge time.Time) ([]finance.Payment, error) {
	var paymentModels []models.PaymentModel
	err := r.db.WithContext(ctx).Unscoped().
		Joins("JOIN financeiro_lancamentos l ON l.id = pagamentos.ledger_entry_id").
		Where("pagamentos.status = ?", string(finance.PaymentStatusPendente)).
		Where("l.status = ? AND l.created_at < ?", string(finance.LedgerStatusPendente), minLedgerAge).
		Where("pagamentos.last_notified_at IS NULL OR pagamentos.last_notified_at < ?", cutoff).
		Find(&paymentModels).Error
	if err != nil {
		return nil, err
	}

	payments := make([]finance.Payment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}
