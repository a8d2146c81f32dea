package service

import (
	"context"
	"time"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository persists orders within the current tenant scope.
// Methods taking an explicit tenantID run outside the request scope
// (scheduled evaluators iterate tenants with no tenant in context).
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)
	Save(ctx context.Context, order *Order) error

	// CountCreatedInMonth counts orders a tenant created within the
	// calendar month containing ref. Used by the plan limit gate.
	CountCreatedInMonth(ctx context.Context, tenantID uuid.UUID, ref time.Time) (int64, error)

	// FindStalled returns open orders of a tenant whose last movement
	// (newest history row or updated_at, whichever is later) is before
	// the cutoff.
	FindStalled(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]Order, error)

	// NextNumber reserves the next sequential order number for a tenant
	// in the current year.
	NextNumber(ctx context.Context, tenantID uuid.UUID, year int) (string, error)
}
