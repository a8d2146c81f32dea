package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// LedgerEntryModel is the persistence model for the LedgerEntry aggregate
type LedgerEntryModel struct {
	TenantModel
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID     *uuid.UUID      `gorm:"type:uuid;index"`
	Description string          `gorm:"type:varchar(300)"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DueDate     time.Time       `gorm:"type:date;not null;index"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	PaidAt      *time.Time
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "financeiro_lancamentos"
}

// ToDomain converts the persistence model to a domain LedgerEntry
func (m *LedgerEntryModel) ToDomain() *finance.LedgerEntry {
	return &finance.LedgerEntry{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		ClientID:            m.ClientID,
		OrderID:             m.OrderID,
		Description:         m.Description,
		Amount:              m.Amount,
		DueDate:             m.DueDate,
		Status:              finance.LedgerStatus(m.Status),
		PaidAt:              m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain LedgerEntry
func (m *LedgerEntryModel) FromDomain(e *finance.LedgerEntry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.ClientID = e.ClientID
	m.OrderID = e.OrderID
	m.Description = e.Description
	m.Amount = e.Amount
	m.DueDate = e.DueDate
	m.Status = string(e.Status)
	m.PaidAt = e.PaidAt
}

// PaymentModel is the persistence model for the Payment entity
type PaymentModel struct {
	TenantModel
	LedgerEntryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClientID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	TxID           string          `gorm:"type:varchar(100);index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status         string          `gorm:"type:varchar(20);not null;index"`
	LastNotifiedAt *time.Time      `gorm:"index"`
	ResendCount    int             `gorm:"not null;default:0"`
	ConfirmedAt    *time.Time
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "pagamentos"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *finance.Payment {
	return &finance.Payment{
		TenantEntity:   m.ToDomainTenantEntity(),
		LedgerEntryID:  m.LedgerEntryID,
		ClientID:       m.ClientID,
		TxID:           m.TxID,
		Amount:         m.Amount,
		Status:         finance.PaymentStatus(m.Status),
		LastNotifiedAt: m.LastNotifiedAt,
		ResendCount:    m.ResendCount,
		ConfirmedAt:    m.ConfirmedAt,
	}
}

// FromDomain populates the persistence model from a domain Payment
func (m *PaymentModel) FromDomain(p *finance.Payment) {
	m.FromDomainTenantEntity(p.TenantEntity)
	m.LedgerEntryID = p.LedgerEntryID
	m.ClientID = p.ClientID
	m.TxID = p.TxID
	m.Amount = p.Amount
	m.Status = string(p.Status)
	m.LastNotifiedAt = p.LastNotifiedAt
	m.ResendCount = p.ResendCount
	m.ConfirmedAt = p.ConfirmedAt
}
