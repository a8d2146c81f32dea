package finance

import (
	"time"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeLedgerEntry = "FinanceiroLancamento"

// Event type constants
const (
	EventTypeLedgerGenerated  = "LedgerGenerated"
	EventTypePaymentConfirmed = "PaymentConfirmed"
)

// LedgerGeneratedEvent is raised when a new pending ledger entry is created
type LedgerGeneratedEvent struct {
	shared.BaseDomainEvent
	LedgerEntryID uuid.UUID       `json:"ledger_entry_id"`
	ClientID      uuid.UUID       `json:"client_id"`
	OrderID       *uuid.UUID      `json:"order_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
}

// NewLedgerGeneratedEvent creates a new LedgerGeneratedEvent
func NewLedgerGeneratedEvent(entry *LedgerEntry) *LedgerGeneratedEvent {
	return &LedgerGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerGenerated, AggregateTypeLedgerEntry, entry.ID, entry.TenantID),
		LedgerEntryID:   entry.ID,
		ClientID:        entry.ClientID,
		OrderID:         entry.OrderID,
		Amount:          entry.Amount,
		DueDate:         entry.DueDate,
	}
}

// PaymentConfirmedEvent is raised when a ledger entry is settled
type PaymentConfirmedEvent struct {
	shared.BaseDomainEvent
	LedgerEntryID uuid.UUID       `json:"ledger_entry_id"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	ClientID      uuid.UUID       `json:"client_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewPaymentConfirmedEvent creates a new PaymentConfirmedEvent
func NewPaymentConfirmedEvent(entry *LedgerEntry, paymentID uuid.UUID) *PaymentConfirmedEvent {
	return &PaymentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentConfirmed, AggregateTypeLedgerEntry, entry.ID, entry.TenantID),
		LedgerEntryID:   entry.ID,
		PaymentID:       paymentID,
		ClientID:        entry.ClientID,
		Amount:          entry.Amount,
	}
}
