// Package automation orchestrates the event pipeline: domain events and
// scheduled sweeps are translated into queued executions, and a worker
// pool turns executions into outbound WhatsApp notifications.
package automation

import (
	"context"
	"errors"

	"github.com/osworks/backend/internal/domain/automation"
	"github.com/osworks/backend/internal/domain/finance"
	"github.com/osworks/backend/internal/domain/service"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/osworks/backend/internal/infrastructure/logger"
	"github.com/osworks/backend/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobQueue accepts jobs for asynchronous processing
type JobQueue interface {
	Submit(job *scheduler.Job) error
}

// Dispatcher listens to domain events and turns them into queued
// automation executions. Dispatch never blocks on network I/O; the
// worker pool does the sending.
type Dispatcher struct {
	ruleRepo      automation.RuleRepository
	executionRepo automation.ExecutionRepository
	queue         JobQueue
	logger        *zap.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(
	ruleRepo automation.RuleRepository,
	executionRepo automation.ExecutionRepository,
	queue JobQueue,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		ruleRepo:      ruleRepo,
		executionRepo: executionRepo,
		queue:         queue,
		logger:        logger,
	}
}

// EventTypes returns the domain event types the dispatcher listens to.
// Order cancellation raises an event but maps to no automation.
func (d *Dispatcher) EventTypes() []string {
	return []string{
		service.EventTypeOrderCreated,
		service.EventTypeOrderEnteredProduction,
		service.EventTypeOrderAwaitingPayment,
		service.EventTypeOrderFinalized,
		finance.EventTypeLedgerGenerated,
		finance.EventTypePaymentConfirmed,
	}
}

// Handle translates a domain event into a dispatch call
func (d *Dispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *service.OrderCreatedEvent:
		return d.dispatchOrderEvent(ctx, automation.EventOSCriada, &e.OrderEvent)
	case *service.OrderEnteredProductionEvent:
		return d.dispatchOrderEvent(ctx, automation.EventOSEmProducao, &e.OrderEvent)
	case *service.OrderAwaitingPaymentEvent:
		return d.dispatchOrderEvent(ctx, automation.EventOSAguardandoPix, &e.OrderEvent)
	case *service.OrderFinalizedEvent:
		return d.dispatchOrderEvent(ctx, automation.EventOSFinalizada, &e.OrderEvent)
	case *finance.LedgerGeneratedEvent:
		payload := automation.LedgerPayload{
			LancamentoID: e.LedgerEntryID,
			ClienteID:    e.ClientID,
			Valor:        e.Amount,
			Vencimento:   e.DueDate,
		}
		return d.Dispatch(ctx, e.TenantID(), automation.EventFinanceiroGerado,
			automation.EntityLancamento, e.LedgerEntryID, payload)
	case *finance.PaymentConfirmedEvent:
		payload := automation.PaymentPayload{
			PagamentoID:  e.PaymentID,
			LancamentoID: e.LedgerEntryID,
			Valor:        e.Amount,
		}
		return d.Dispatch(ctx, e.TenantID(), automation.EventPagamentoConfirmado,
			automation.EntityLancamento, e.LedgerEntryID, payload)
	}
	return nil
}

func (d *Dispatcher) dispatchOrderEvent(ctx context.Context, ruleEvent string, e *service.OrderEvent) error {
	payload := automation.OrderPayload{
		OrdemServicoID: e.OrderID,
		Numero:         e.OrderNumber,
		StatusAtual:    e.Status.String(),
		Total:          e.Total,
	}
	return d.Dispatch(ctx, e.TenantID(), ruleEvent, automation.EntityOrdemServico, e.OrderID, payload)
}

// Dispatch records a queued execution for the tenant's rule on the
// given event, if one is enabled, and hands it to the worker pool. A
// tenant without an enabled rule is a no-op, not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, tenantID uuid.UUID, event, entityType string, entityID uuid.UUID, payload automation.Payload) error {
	_, err := d.ruleRepo.FindEnabled(ctx, tenantID, event)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	action, ok := automation.ActionForEvent(event)
	if !ok {
		return nil
	}

	execution, err := automation.NewExecution(tenantID, event, action, entityType, entityID, payload)
	if err != nil {
		return err
	}
	if err := d.executionRepo.Save(ctx, execution); err != nil {
		return err
	}

	log := logger.L(ctx)
	if err := d.queue.Submit(scheduler.NewJob(execution.ID, tenantID)); err != nil {
		// The row stays queued; a full queue loses the trigger but
		// never the record of it.
		log.Warn("failed to enqueue automation execution",
			zap.String("execution_id", execution.ID.String()),
			zap.String("tenant_id", tenantID.String()),
			zap.String("event", event),
			zap.Error(err),
		)
		return nil
	}

	log.Info("automation execution dispatched",
		zap.String("execution_id", execution.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("event", event),
		zap.String("action", action),
		zap.String("entity_id", entityID.String()),
	)
	return nil
}
