package finance

import (
	"time"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the status of a PIX payment attempt
type PaymentStatus string

const (
	PaymentStatusPendente   PaymentStatus = "pendente"
	PaymentStatusConfirmado PaymentStatus = "confirmado"
	PaymentStatusCancelado  PaymentStatus = "cancelado"
)

// Payment tracks a PIX charge for a ledger entry, including the resend
// bookkeeping used by the daily resend job.
type Payment struct {
	shared.TenantEntity
	LedgerEntryID  uuid.UUID
	ClientID       uuid.UUID
	TxID           string
	Amount         decimal.Decimal
	Status         PaymentStatus
	LastNotifiedAt *time.Time
	ResendCount    int
	ConfirmedAt    *time.Time
}

// NewPayment creates a pending PIX payment for a ledger entry
func NewPayment(tenantID, ledgerEntryID, clientID uuid.UUID, txID string, amount decimal.Decimal) (*Payment, error) {
	if ledgerEntryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEDGER", "Ledger entry is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	return &Payment{
		TenantEntity:  shared.NewTenantEntity(tenantID),
		LedgerEntryID: ledgerEntryID,
		ClientID:      clientID,
		TxID:          txID,
		Amount:        amount.Round(2),
		Status:        PaymentStatusPendente,
	}, nil
}

// Confirm marks the payment as confirmed
func (p *Payment) Confirm() error {
	if p.Status != PaymentStatusPendente {
		return shared.NewDomainError("PAYMENT_NOT_PENDING", "Only pending payments can be confirmed")
	}
	now := time.Now()
	p.Status = PaymentStatusConfirmado
	p.ConfirmedAt = &now
	p.UpdatedAt = now
	return nil
}

// MarkNotified stamps the last notification time and increments the
// resend counter. Called after every outbound charge message.
func (p *Payment) MarkNotified(at time.Time) {
	p.LastNotifiedAt = &at
	p.ResendCount++
	p.UpdatedAt = at
}

// EligibleForResend reports whether the resend job should re-send this
// charge: still pending, and either never notified or last notified
// before the cool-down cutoff.
func (p *Payment) EligibleForResend(cutoff time.Time) bool {
	if p.Status != PaymentStatusPendente {
		return false
	}
	return p.LastNotifiedAt == nil || p.LastNotifiedAt.Before(cutoff)
}
