package finance

import (
	"strings"
	"time"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerStatus represents the status of a ledger entry
type LedgerStatus string

const (
	LedgerStatusPendente  LedgerStatus = "pendente"
	LedgerStatusPago      LedgerStatus = "pago"
	LedgerStatusCancelado LedgerStatus = "cancelado"
)

// IsValid checks if the status is a known LedgerStatus
func (s LedgerStatus) IsValid() bool {
	switch s {
	case LedgerStatusPendente, LedgerStatusPago, LedgerStatusCancelado:
		return true
	}
	return false
}

// LedgerEntry is a billable record tied to a client and optionally a
// service order. Payment confirmation is the only path from pendente
// to pago.
type LedgerEntry struct {
	shared.TenantAggregateRoot
	ClientID    uuid.UUID
	OrderID     *uuid.UUID
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	Status      LedgerStatus
	PaidAt      *time.Time
}

// NewLedgerEntry creates a pending ledger entry and raises
// LedgerGeneratedEvent.
func NewLedgerEntry(tenantID, clientID uuid.UUID, orderID *uuid.UUID, description string, amount decimal.Decimal, dueDate time.Time) (*LedgerEntry, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}
	entry := &LedgerEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		OrderID:             orderID,
		Description:         strings.TrimSpace(description),
		Amount:              amount.Round(2),
		DueDate:             dueDate,
		Status:              LedgerStatusPendente,
	}
	entry.AddDomainEvent(NewLedgerGeneratedEvent(entry))
	return entry, nil
}

// MarkPaid moves the entry to pago and raises PaymentConfirmedEvent
func (e *LedgerEntry) MarkPaid(paymentID uuid.UUID) error {
	if e.Status != LedgerStatusPendente {
		return shared.NewDomainError("LEDGER_NOT_PENDING", "Only pending entries can be paid")
	}
	now := time.Now()
	e.Status = LedgerStatusPago
	e.PaidAt = &now
	e.UpdatedAt = now
	e.AddDomainEvent(NewPaymentConfirmedEvent(e, paymentID))
	return nil
}

// Cancel moves the entry to cancelado
func (e *LedgerEntry) Cancel() error {
	if e.Status == LedgerStatusPago {
		return shared.NewDomainError("LEDGER_ALREADY_PAID", "Paid entries cannot be cancelled")
	}
	e.Status = LedgerStatusCancelado
	e.UpdatedAt = time.Now()
	return nil
}

// IsPending reports whether the entry still awaits payment
func (e *LedgerEntry) IsPending() bool {
	return e.Status == LedgerStatusPendente
}
