package automation

import (
	"context"
	"time"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Action names executed by the notification worker (closed set)
const (
	ActionOSCriada            = "os_criada"
	ActionOSEmProducao        = "os_em_producao"
	ActionOSFinalizada        = "os_finalizada"
	ActionOSAguardandoPix     = "os_aguardando_pix"
	ActionFinanceiroGerado    = "financeiro_gerado"
	ActionPagamentoConfirmado = "pagamento_confirmado"
	ActionLembretePagamento   = "lembrete_pagamento"
	ActionAvisoOSParada       = "aviso_os_parada"
)

// ActionForEvent maps a business event name to the worker action it
// queues. One enabled rule config maps to exactly one execution.
func ActionForEvent(event string) (string, bool) {
	switch event {
	case EventOSCriada:
		return ActionOSCriada, true
	case EventOSEmProducao:
		return ActionOSEmProducao, true
	case EventOSFinalizada:
		return ActionOSFinalizada, true
	case EventOSAguardandoPix:
		return ActionOSAguardandoPix, true
	case EventFinanceiroGerado:
		return ActionFinanceiroGerado, true
	case EventPagamentoConfirmado:
		return ActionPagamentoConfirmado, true
	case EventFinanceiroPendente, EventFinanceiroVencido:
		return ActionLembretePagamento, true
	case EventOSParada:
		return ActionAvisoOSParada, true
	}
	return "", false
}

// ExecutionStatus tracks an execution through its lifecycle
type ExecutionStatus string

const (
	ExecutionQueued  ExecutionStatus = "queued"
	ExecutionRunning ExecutionStatus = "running"
	ExecutionSuccess ExecutionStatus = "success"
	ExecutionSkipped ExecutionStatus = "skipped"
	ExecutionError   ExecutionStatus = "error"
)

// IsTerminal reports whether the status is final
func (s ExecutionStatus) IsTerminal() bool {
	return s == ExecutionSuccess || s == ExecutionSkipped || s == ExecutionError
}

// Execution is one triggered instance of an automation rule. Created by
// dispatch with status queued, mutated only by the worker, terminal
// once success, skipped or error.
type Execution struct {
	shared.TenantEntity
	Event       string
	Action      string
	EntityType  string
	EntityID    uuid.UUID
	PayloadKind string
	PayloadData []byte
	Status      ExecutionStatus
	Message     string
	StartedAt   *time.Time
	FinishedAt  *time.Time
}

// NewExecution creates a queued execution carrying a typed payload snapshot
func NewExecution(tenantID uuid.UUID, event, action, entityType string, entityID uuid.UUID, payload Payload) (*Execution, error) {
	kind, data, err := MarshalPayload(payload)
	if err != nil {
		return nil, err
	}
	return &Execution{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Event:        event,
		Action:       action,
		EntityType:   entityType,
		EntityID:     entityID,
		PayloadKind:  kind,
		PayloadData:  data,
		Status:       ExecutionQueued,
	}, nil
}

// Payload deserializes the stored payload snapshot
func (e *Execution) Payload() (Payload, error) {
	return UnmarshalPayload(e.PayloadKind, e.PayloadData)
}

// Start marks the execution running and stamps the start time
func (e *Execution) Start(now time.Time) {
	e.Status = ExecutionRunning
	e.StartedAt = &now
	e.UpdatedAt = now
}

// Succeed marks the execution successful
func (e *Execution) Succeed(now time.Time, message string) {
	e.finish(now, ExecutionSuccess, message)
}

// Skip marks the execution skipped with a reason. Precondition
// mismatches and configuration anomalies end here, never in error.
func (e *Execution) Skip(now time.Time, reason string) {
	e.finish(now, ExecutionSkipped, reason)
}

// Fail records a fault. The worker never rethrows after this, so a
// triggered execution sends at most one notification attempt.
func (e *Execution) Fail(now time.Time, message string) {
	e.finish(now, ExecutionError, message)
}

func (e *Execution) finish(now time.Time, status ExecutionStatus, message string) {
	e.Status = status
	e.Message = message
	e.FinishedAt = &now
	e.UpdatedAt = now
}

// ExecutionRepository persists executions. The worker loads and updates
// them outside any tenant request scope.
type ExecutionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Execution, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Execution, int64, error)
	Save(ctx context.Context, execution *Execution) error
}
