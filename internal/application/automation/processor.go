package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osworks/backend/internal/domain/automation"
	"github.com/osworks/backend/internal/domain/billing"
	"github.com/osworks/backend/internal/domain/finance"
	"github.com/osworks/backend/internal/domain/partner"
	"github.com/osworks/backend/internal/domain/service"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/osworks/backend/internal/infrastructure/logger"
	"github.com/osworks/backend/internal/infrastructure/messaging"
	"github.com/osworks/backend/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FeatureGate reports whether a tenant's plan grants a feature. The
// billing subscription service satisfies it.
type FeatureGate interface {
	HasFeature(ctx context.Context, tenantID uuid.UUID, feature string) (bool, error)
}

// actionResult is the outcome of one action handler
type actionResult struct {
	Skipped bool
	Message string
}

func skipped(reason string) actionResult {
	return actionResult{Skipped: true, Message: reason}
}

func sent(message string) actionResult {
	return actionResult{Message: message}
}

// ExecutionProcessor processes queued automation executions. Each
// execution gets a single attempt: preconditions that no longer hold
// end in skipped, faults end in error, and neither is retried, so one
// trigger sends at most one message.
type ExecutionProcessor struct {
	executionRepo automation.ExecutionRepository
	ruleRepo      automation.RuleRepository
	orderRepo     service.OrderRepository
	ledgerRepo    finance.LedgerRepository
	clientRepo    partner.ClientRepository
	notifier      messaging.Notifier
	features      FeatureGate
	logger        *zap.Logger
}

// NewExecutionProcessor creates a new ExecutionProcessor
func NewExecutionProcessor(
	executionRepo automation.ExecutionRepository,
	ruleRepo automation.RuleRepository,
	orderRepo service.OrderRepository,
	ledgerRepo finance.LedgerRepository,
	clientRepo partner.ClientRepository,
	notifier messaging.Notifier,
	features FeatureGate,
	logger *zap.Logger,
) *ExecutionProcessor {
	return &ExecutionProcessor{
		executionRepo: executionRepo,
		ruleRepo:      ruleRepo,
		orderRepo:     orderRepo,
		ledgerRepo:    ledgerRepo,
		clientRepo:    clientRepo,
		notifier:      notifier,
		features:      features,
		logger:        logger,
	}
}

// Execute processes one job end to end and always persists a terminal
// status. A missing execution row is a no-op, not an error.
func (p *ExecutionProcessor) Execute(ctx context.Context, job *scheduler.Job) error {
	execution, err := p.executionRepo.FindByID(ctx, job.ExecutionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			p.logger.Debug("execution not found, skipping",
				zap.String("execution_id", job.ExecutionID.String()))
			return nil
		}
		return err
	}
	if execution.Status != automation.ExecutionQueued {
		// Already picked up or finished
		return nil
	}

	// Scope the rest of the processing to the execution's tenant so
	// entity lookups go through the regular tenant filter.
	ctx, log := logger.WithTenantID(ctx, p.logger, execution.TenantID.String())

	execution.Start(time.Now())
	if err := p.executionRepo.Save(ctx, execution); err != nil {
		return err
	}

	result := p.process(ctx, execution)

	now := time.Now()
	switch {
	case result.err != nil:
		execution.Fail(now, result.err.Error())
		log.Warn("automation execution failed",
			zap.String("execution_id", execution.ID.String()),
			zap.String("action", execution.Action),
			zap.Error(result.err),
		)
	case result.Skipped:
		execution.Skip(now, result.Message)
		log.Info("automation execution skipped",
			zap.String("execution_id", execution.ID.String()),
			zap.String("action", execution.Action),
			zap.String("reason", result.Message),
		)
	default:
		execution.Succeed(now, result.Message)
		log.Info("automation execution succeeded",
			zap.String("execution_id", execution.ID.String()),
			zap.String("action", execution.Action),
		)
	}

	if err := p.executionRepo.Save(ctx, execution); err != nil {
		log.Error("failed to persist execution outcome",
			zap.String("execution_id", execution.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

type processResult struct {
	actionResult
	err error
}

// process re-validates the rule and runs the action handler. Panics are
// recorded as an error outcome and never rethrown.
func (p *ExecutionProcessor) process(ctx context.Context, execution *automation.Execution) (result processResult) {
	defer func() {
		if r := recover(); r != nil {
			result = processResult{err: fmt.Errorf("panic: %v", r)}
		}
	}()

	// Configuration may have changed between enqueue and execution
	if _, err := p.ruleRepo.FindEnabled(ctx, execution.TenantID, execution.Event); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return processResult{actionResult: skipped("Regra desativada.")}
		}
		return processResult{err: err}
	}

	// Sending goes through WhatsApp, so the tenant's plan must grant
	// the channel.
	allowed, err := p.features.HasFeature(ctx, execution.TenantID, billing.FeatureWhatsApp)
	if err != nil {
		return processResult{err: err}
	}
	if !allowed {
		return processResult{actionResult: skipped("Plano sem canal de WhatsApp.")}
	}

	res, err := p.runAction(ctx, execution)
	return processResult{actionResult: res, err: err}
}

func (p *ExecutionProcessor) runAction(ctx context.Context, execution *automation.Execution) (actionResult, error) {
	switch execution.Action {
	case automation.ActionOSCriada:
		return p.handleOrderCreated(ctx, execution)
	case automation.ActionOSEmProducao:
		return p.handleOrderStatus(ctx, execution, service.OrderStatusEmProducao,
			"OS não está mais em produção.",
			"Olá, %s! Sua ordem de serviço %s entrou em produção.")
	case automation.ActionOSFinalizada:
		return p.handleOrderFinalized(ctx, execution)
	case automation.ActionOSAguardandoPix:
		return p.handleOrderAwaitingPix(ctx, execution)
	case automation.ActionFinanceiroGerado:
		return p.handleLedgerGenerated(ctx, execution)
	case automation.ActionPagamentoConfirmado:
		return p.handlePaymentConfirmed(ctx, execution)
	case automation.ActionLembretePagamento:
		return p.handlePaymentReminder(ctx, execution)
	case automation.ActionAvisoOSParada:
		return p.handleStalledOrder(ctx, execution)
	}
	return skipped(fmt.Sprintf("Ação desconhecida: %s.", execution.Action)), nil
}

// loadOrder re-fetches the order and its client. Payload values are
// lookup keys only; current state always comes from the database.
func (p *ExecutionProcessor) loadOrder(ctx context.Context, execution *automation.Execution) (*service.Order, *partner.Client, actionResult, error) {
	order, err := p.orderRepo.FindByID(ctx, execution.EntityID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, skipped("OS não encontrada."), nil
		}
		return nil, nil, actionResult{}, err
	}
	client, res, err := p.loadClient(ctx, order.ClientID)
	if err != nil || res.Skipped {
		return nil, nil, res, err
	}
	return order, client, actionResult{}, nil
}

// loadLedger re-fetches the ledger entry and its client
func (p *ExecutionProcessor) loadLedger(ctx context.Context, execution *automation.Execution) (*finance.LedgerEntry, *partner.Client, actionResult, error) {
	entry, err := p.ledgerRepo.FindByID(ctx, execution.EntityID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, skipped("Lançamento não encontrado."), nil
		}
		return nil, nil, actionResult{}, err
	}
	client, res, err := p.loadClient(ctx, entry.ClientID)
	if err != nil || res.Skipped {
		return nil, nil, res, err
	}
	return entry, client, actionResult{}, nil
}

func (p *ExecutionProcessor) loadClient(ctx context.Context, clientID uuid.UUID) (*partner.Client, actionResult, error) {
	client, err := p.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, skipped("Cliente não encontrado."), nil
		}
		return nil, actionResult{}, err
	}
	if !client.HasPhone() {
		return nil, skipped("Cliente sem telefone."), nil
	}
	return client, actionResult{}, nil
}

func (p *ExecutionProcessor) send(ctx context.Context, execution *automation.Execution, client *partner.Client, body string) (actionResult, error) {
	err := p.notifier.Send(ctx, messaging.SendInput{
		TenantID: execution.TenantID,
		ClientID: client.ID,
		Phone:    client.Phone,
		Body:     body,
		Kind:     execution.Action,
		RefID:    execution.EntityID,
	})
	if err != nil {
		return actionResult{}, err
	}
	return sent(fmt.Sprintf("Mensagem enviada para %s.", client.Phone)), nil
}

func (p *ExecutionProcessor) handleOrderCreated(ctx context.Context, execution *automation.Execution) (actionResult, error) {
	order, client, res, err := p.loadOrder(ctx, execution)
	if err != nil || res.Skipped {
		return res, err
	}
	body := fmt.Sprintf("Olá, %s! Sua ordem de serviço %s foi registrada com sucesso. Valor: %s. Vamos te avisar a cada atualização.",
		greetingName(client.Name), order.Number, formatCurrency(order.Total))
	return p.send(ctx, execution, client, body)
}

func (p *ExecutionProcessor) handleOrderStatus(ctx context.Context, execution *automation.Execution, expected service.OrderStatus, skipReason, template string) (actionResult, error) {
	order, client, res, err := p.loadOrder(ctx, execution)
	if err != nil || res.Skipped {
		return res, err
	}
	if order.Status != expected {
		return skipped(skipReason), nil
	}
	body := fmt.Sprintf(template, greetingName(client.Name), order.Number)
	return p.send(ctx, execution, client, body)
}

func (p *ExecutionProcessor) handleOrderFinalized(ctx context.Context, execution *automation.Execution) (actionResult, error) {
	order, client, res, err := p.loadOrder(ctx, execution)
	if err != nil || res.Skipped {
		return res, err
	}
	if order.Status != service.OrderStatusFinalizada {
		return skipped("OS não está mais finalizada."), nil
	}
	body := fmt.Sprintf("Boa notícia, %s! Sua ordem de serviço %s foi finalizada. Valor total: %s.",
		greetingName(client.Name), order.Number, formatCurrency(order.Total))
	return p.send(ctx, execution, client, body)
}

func (p *ExecutionProcessor) handleOrderAwaitingPix(ctx context.Context, execution *automation.Execution) (actionResult, error) {
	order, client, res, err := p.loadOrder(ctx, execution)
	if err != nil || res.Skipped {
		return res, err
	}
	if order.Status != service.OrderStatusAguardandoPagmento {
		return skipped("OS não está mais aguardando pagamento."), nil
	}
	body := fmt.Sprintf("Olá, %s! Sua ordem de serviço %s está pronta e aguardando o pagamento de %s via PIX.",
		greetingName(client.Name), order.Number, formatCurrency(order.Total))
	return p.send(ctx, execution, client, body)
}

func (p *ExecutionProcessor) handleLedgerGenerated(ctx context.Context, execution *automation.Execution) (actionResult, error) {
	entry, client, res, err := p.loadLedger(ctx, execution)
	if err != nil || res.Skipped {
		return res, err
	}
	if !entry.IsPending() {
		return skipped("Lançamento não está mais pendente."), nil
	}
	body := fmt.Sprintf("Olá, %s! Geramos uma cobrança de %s com vencimento em %s.",
		greetingName(client.Name), formatCurrency(entry.Amount), formatDate(entry.DueDate))
	return p.send(ctx, execution, client, body)
}

func (p *ExecutionProcessor) handlePaymentConfirmed(ctx context.Context, execution *automation.Execution) (actionResult, error) {
	entry, client, res, err := p.loadLedger(ctx, execution)
	if err != nil || res.Skipped {
		return res, err
	}
	if entry.Status != finance.LedgerStatusPago {
		return skipped("Lançamento não está pago."), nil
	}
	body := fmt.Sprintf("Olá, %s! Confirmamos o recebimento do pagamento de %s. Obrigado!",
		greetingName(client.Name), formatCurrency(entry.Amount))
	return p.send(ctx, execution, client, body)
}

func (p *ExecutionProcessor) handlePaymentReminder(ctx context.Context, execution *automation.Execution) (actionResult, error) {
	entry, client, res, err := p.loadLedger(ctx, execution)
	if err != nil || res.Skipped {
		return res, err
	}
	if !entry.IsPending() {
		return skipped("Lançamento não está mais pendente."), nil
	}

	payload, err := execution.Payload()
	if err != nil {
		return actionResult{}, err
	}
	dias := 0
	if ledgerPayload, ok := payload.(automation.LedgerPayload); ok {
		dias = ledgerPayload.Dias
	}

	var body string
	if execution.Event == automation.EventFinanceiroVencido {
		body = fmt.Sprintf("Olá, %s! O pagamento de %s está vencido há %d %s (vencimento em %s). Podemos te ajudar a regularizar?",
			greetingName(client.Name), formatCurrency(entry.Amount), dias, dayWord(dias), formatDate(entry.DueDate))
	} else {
		body = fmt.Sprintf("Olá, %s! Lembrete: o pagamento de %s vence em %d %s, no dia %s.",
			greetingName(client.Name), formatCurrency(entry.Amount), dias, dayWord(dias), formatDate(entry.DueDate))
	}
	return p.send(ctx, execution, client, body)
}

func (p *ExecutionProcessor) handleStalledOrder(ctx context.Context, execution *automation.Execution) (actionResult, error) {
	order, client, res, err := p.loadOrder(ctx, execution)
	if err != nil || res.Skipped {
		return res, err
	}

	payload, err := execution.Payload()
	if err != nil {
		return actionResult{}, err
	}
	orderPayload, ok := payload.(automation.OrderPayload)
	if !ok {
		return skipped("Payload inválido para aviso de OS parada."), nil
	}
	if order.Status.String() != orderPayload.StatusAtual {
		return skipped("Status da OS mudou desde o agendamento."), nil
	}

	body := fmt.Sprintf("Olá, %s! Sua ordem de serviço %s está há %d %s sem movimentação (status: %s). Em breve entraremos em contato com novidades.",
		greetingName(client.Name), order.Number, orderPayload.Dias, dayWord(orderPayload.Dias), order.Status)
	return p.send(ctx, execution, client, body)
}
