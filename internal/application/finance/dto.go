// Package finance contains application services for the tenant's
// ledger and PIX payments.
package finance

import (
	"time"

	"github.com/osworks/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateLedgerEntryRequest creates a standalone ledger entry
type CreateLedgerEntryRequest struct {
	ClientID    uuid.UUID       `json:"client_id" binding:"required"`
	OrderID     *uuid.UUID      `json:"order_id"`
	Description string          `json:"description" binding:"max=300"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	ClientID    uuid.UUID       `json:"client_id"`
	OrderID     *uuid.UUID      `json:"order_id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	Status      string          `json:"status"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToLedgerEntryResponse converts a domain ledger entry to a response
func ToLedgerEntryResponse(entry *finance.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:          entry.ID,
		ClientID:    entry.ClientID,
		OrderID:     entry.OrderID,
		Description: entry.Description,
		Amount:      entry.Amount,
		DueDate:     entry.DueDate,
		Status:      string(entry.Status),
		PaidAt:      entry.PaidAt,
		CreatedAt:   entry.CreatedAt,
	}
}

// PaymentResponse represents a PIX payment in API responses
type PaymentResponse struct {
	ID             uuid.UUID       `json:"id"`
	LedgerEntryID  uuid.UUID       `json:"ledger_entry_id"`
	ClientID       uuid.UUID       `json:"client_id"`
	TxID           string          `json:"tx_id"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	LastNotifiedAt *time.Time      `json:"last_notified_at,omitempty"`
	ResendCount    int             `json:"resend_count"`
	ConfirmedAt    *time.Time      `json:"confirmed_at,omitempty"`
}

// ToPaymentResponse converts a domain payment to a response
func ToPaymentResponse(payment *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             payment.ID,
		LedgerEntryID:  payment.LedgerEntryID,
		ClientID:       payment.ClientID,
		TxID:           payment.TxID,
		Amount:         payment.Amount,
		Status:         string(payment.Status),
		LastNotifiedAt: payment.LastNotifiedAt,
		ResendCount:    payment.ResendCount,
		ConfirmedAt:    payment.ConfirmedAt,
	}
}
