package automation

import (
	"context"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Business event names a rule can be configured for. Rule rows are
// keyed by (tenant, event name).
const (
	EventOSCriada            = "os_criada"
	EventOSEmProducao        = "os_em_producao"
	EventOSFinalizada        = "os_finalizada"
	EventOSAguardandoPix     = "os_aguardando_pix"
	EventFinanceiroGerado    = "financeiro_gerado"
	EventPagamentoConfirmado = "pagamento_confirmado"
	EventFinanceiroPendente  = "financeiro_pendente"
	EventFinanceiroVencido   = "financeiro_vencido"
	EventOSParada            = "os_parada"
)

// ParamDias is the day-threshold parameter used by the time-driven rules
const ParamDias = "dias"

// Rule is a tenant-scoped automation configuration: one row per event
// name, holding an enabled flag and event-specific parameters.
type Rule struct {
	shared.TenantEntity
	Event   string
	Enabled bool
	Params  map[string]int
}

// NewRule creates a rule for a tenant and event name
func NewRule(tenantID uuid.UUID, event string, enabled bool, params map[string]int) (*Rule, error) {
	if !KnownEvent(event) {
		return nil, shared.NewDomainError("UNKNOWN_EVENT", "Unknown automation event: "+event)
	}
	if params == nil {
		params = make(map[string]int)
	}
	return &Rule{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Event:        event,
		Enabled:      enabled,
		Params:       params,
	}, nil
}

// Dias returns the configured day threshold, or zero when absent.
// Time-driven rules with a non-positive threshold are malformed and
// skipped by the evaluator, not treated as fatal.
func (r *Rule) Dias() int {
	return r.Params[ParamDias]
}

// KnownEvent reports whether the event name is part of the closed set
func KnownEvent(event string) bool {
	switch event {
	case EventOSCriada, EventOSEmProducao, EventOSFinalizada, EventOSAguardandoPix,
		EventFinanceiroGerado, EventPagamentoConfirmado,
		EventFinanceiroPendente, EventFinanceiroVencido, EventOSParada:
		return true
	}
	return false
}

// RuleRepository persists automation rules. Lookups take an explicit
// tenant ID because both the request-scoped dispatcher and the
// cross-tenant scheduled evaluator use them.
type RuleRepository interface {
	FindEnabled(ctx context.Context, tenantID uuid.UUID, event string) (*Rule, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]Rule, error)
	FindTenantsWithEnabled(ctx context.Context, event string) ([]Rule, error)
	Save(ctx context.Context, rule *Rule) error
}
