package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/osworks/backend/internal/domain/finance"
	"github.com/osworks/backend/internal/domain/service"
	"github.com/osworks/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultDueDays is the payment term applied to ledger entries
// generated from finalized orders.
const DefaultDueDays = 7

// OrderFinalizedHandler generates a pending ledger entry when a
// service order is finalized. Zero-total orders produce no entry.
type OrderFinalizedHandler struct {
	ledgerRepo     finance.LedgerRepository
	eventPublisher shared.EventPublisher
	dueDays        int
	logger         *zap.Logger
}

// NewOrderFinalizedHandler creates a new OrderFinalizedHandler
func NewOrderFinalizedHandler(
	ledgerRepo finance.LedgerRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *OrderFinalizedHandler {
	return &OrderFinalizedHandler{
		ledgerRepo:     ledgerRepo,
		eventPublisher: eventPublisher,
		dueDays:        DefaultDueDays,
		logger:         logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *OrderFinalizedHandler) EventTypes() []string {
	return []string{service.EventTypeOrderFinalized}
}

// Handle creates the ledger entry for a finalized order
func (h *OrderFinalizedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	finalized, ok := event.(*service.OrderFinalizedEvent)
	if !ok {
		return nil
	}
	if !finalized.Total.IsPositive() {
		h.logger.Info("skipping ledger generation for zero-total order",
			zap.String("order_id", finalized.OrderID.String()),
			zap.String("tenant_id", finalized.TenantID().String()),
		)
		return nil
	}

	orderID := finalized.OrderID
	dueDate := time.Now().AddDate(0, 0, h.dueDays)
	entry, err := finance.NewLedgerEntry(
		finalized.TenantID(),
		finalized.ClientID,
		&orderID,
		fmt.Sprintf("OS %s", finalized.OrderNumber),
		finalized.Total,
		dueDate,
	)
	if err != nil {
		return err
	}
	if err := h.ledgerRepo.Save(ctx, entry); err != nil {
		return err
	}

	h.logger.Info("ledger entry generated from finalized order",
		zap.String("ledger_entry_id", entry.ID.String()),
		zap.String("order_id", orderID.String()),
		zap.String("tenant_id", entry.TenantID.String()),
	)

	if h.eventPublisher != nil {
		for _, pending := range entry.GetDomainEvents() {
			if err := h.eventPublisher.Publish(ctx, pending); err != nil {
				h.logger.Warn("failed to publish ledger event",
					zap.String("event_type", pending.EventType()),
					zap.Error(err),
				)
			}
		}
		entry.ClearDomainEvents()
	}
	return nil
}
