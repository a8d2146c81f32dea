package automation

import (
	"context"
	"time"

	"github.com/osworks/backend/internal/domain/automation"
	"github.com/osworks/backend/internal/domain/finance"
	"github.com/osworks/backend/internal/domain/service"
	"go.uber.org/zap"
)

// ScheduledEvaluator sweeps time-driven automation rules: payment
// reminders ahead of the due date, overdue notices after it, and
// stalled-order warnings. It runs on an interval trigger and dispatches
// through the same path as event-driven rules.
//
// Dispatch is a pure function of current persisted state: a sweep that
// observes the same state dispatches the same set, duplicates across
// sweeps are harmless because every handler re-checks preconditions.
type ScheduledEvaluator struct {
	dispatcher *Dispatcher
	ruleRepo   automation.RuleRepository
	ledgerRepo finance.LedgerRepository
	orderRepo  service.OrderRepository
	logger     *zap.Logger
}

// NewScheduledEvaluator creates a new ScheduledEvaluator
func NewScheduledEvaluator(
	dispatcher *Dispatcher,
	ruleRepo automation.RuleRepository,
	ledgerRepo finance.LedgerRepository,
	orderRepo service.OrderRepository,
	logger *zap.Logger,
) *ScheduledEvaluator {
	return &ScheduledEvaluator{
		dispatcher: dispatcher,
		ruleRepo:   ruleRepo,
		ledgerRepo: ledgerRepo,
		orderRepo:  orderRepo,
		logger:     logger,
	}
}

// Name returns the task name
func (e *ScheduledEvaluator) Name() string {
	return "automation_rule_evaluator"
}

// Run executes one sweep across all tenants with enabled time-driven
// rules. Per-tenant failures are logged and never abort the sweep.
func (e *ScheduledEvaluator) Run(ctx context.Context, now time.Time) error {
	e.evaluateLedgerRules(ctx, now, automation.EventFinanceiroPendente, 1)
	e.evaluateLedgerRules(ctx, now, automation.EventFinanceiroVencido, -1)
	e.evaluateStalledOrders(ctx, now)
	return nil
}

// evaluateLedgerRules dispatches for pending ledger entries whose due
// date equals today offset by the rule's day threshold. direction +1
// looks ahead (reminder), -1 looks back (overdue notice).
func (e *ScheduledEvaluator) evaluateLedgerRules(ctx context.Context, now time.Time, event string, direction int) {
	rules, err := e.ruleRepo.FindTenantsWithEnabled(ctx, event)
	if err != nil {
		e.logger.Error("failed to load enabled rules",
			zap.String("event", event), zap.Error(err))
		return
	}

	for _, rule := range rules {
		dias := rule.Dias()
		if dias <= 0 {
			// Malformed config, not fatal
			continue
		}
		target := now.AddDate(0, 0, direction*dias)

		entries, err := e.ledgerRepo.FindPendingDueOn(ctx, rule.TenantID, target)
		if err != nil {
			e.logger.Error("failed to scan pending ledger entries",
				zap.String("tenant_id", rule.TenantID.String()),
				zap.String("event", event),
				zap.Error(err))
			continue
		}

		for i := range entries {
			entry := &entries[i]
			payload := automation.LedgerPayload{
				LancamentoID: entry.ID,
				ClienteID:    entry.ClientID,
				Valor:        entry.Amount,
				Vencimento:   entry.DueDate,
				Dias:         dias,
			}
			if err := e.dispatcher.Dispatch(ctx, rule.TenantID, event,
				automation.EntityLancamento, entry.ID, payload); err != nil {
				e.logger.Error("failed to dispatch ledger rule",
					zap.String("tenant_id", rule.TenantID.String()),
					zap.String("event", event),
					zap.String("ledger_entry_id", entry.ID.String()),
					zap.Error(err))
			}
		}
	}
}

// evaluateStalledOrders dispatches for open orders whose last movement
// is older than the rule's day threshold.
func (e *ScheduledEvaluator) evaluateStalledOrders(ctx context.Context, now time.Time) {
	rules, err := e.ruleRepo.FindTenantsWithEnabled(ctx, automation.EventOSParada)
	if err != nil {
		e.logger.Error("failed to load enabled rules",
			zap.String("event", automation.EventOSParada), zap.Error(err))
		return
	}

	for _, rule := range rules {
		dias := rule.Dias()
		if dias <= 0 {
			continue
		}
		cutoff := now.AddDate(0, 0, -dias)

		orders, err := e.orderRepo.FindStalled(ctx, rule.TenantID, cutoff)
		if err != nil {
			e.logger.Error("failed to scan stalled orders",
				zap.String("tenant_id", rule.TenantID.String()),
				zap.Error(err))
			continue
		}

		for i := range orders {
			order := &orders[i]
			payload := automation.OrderPayload{
				OrdemServicoID: order.ID,
				Numero:         order.Number,
				StatusAtual:    order.Status.String(),
				Total:          order.Total,
				Dias:           dias,
			}
			if err := e.dispatcher.Dispatch(ctx, rule.TenantID, automation.EventOSParada,
				automation.EntityOrdemServico, order.ID, payload); err != nil {
				e.logger.Error("failed to dispatch stalled order rule",
					zap.String("tenant_id", rule.TenantID.String()),
					zap.String("order_id", order.ID.String()),
					zap.Error(err))
			}
		}
	}
}
