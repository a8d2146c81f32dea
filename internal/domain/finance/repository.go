package finance

import (
	"context"
	"time"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LedgerRepository persists ledger entries. Methods taking an explicit
// tenantID run outside the request scope (scheduled evaluators).
type LedgerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]LedgerEntry, int64, error)
	Save(ctx context.Context, entry *LedgerEntry) error

	// FindPendingDueOn returns a tenant's pending entries whose due date
	// falls on the given day.
	FindPendingDueOn(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]LedgerEntry, error)
}

// PaymentRepository persists PIX payments
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByLedgerEntry(ctx context.Context, ledgerEntryID uuid.UUID) (*Payment, error)
	Save(ctx context.Context, payment *Payment) error

	// FindPendingForResend returns pending payments across all tenants
	// whose last notification is older than the cutoff (or never sent)
	// and whose ledger entry was created before minLedgerAge and is
	// still pending.
	FindPendingForResend(ctx context.Context, cutoff, minLedgerAge time.Time) ([]Payment, error)
}
