package automation

import (
	"context"
	"errors"

	"github.com/osworks/backend/internal/domain/automation"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RuleService manages a tenant's automation rule configuration
type RuleService struct {
	ruleRepo automation.RuleRepository
}

// NewRuleService creates a new RuleService
func NewRuleService(ruleRepo automation.RuleRepository) *RuleService {
	return &RuleService{ruleRepo: ruleRepo}
}

// List returns every known event with the tenant's saved configuration
// merged in. Events without a saved row show up disabled so the UI can
// list the full catalog.
func (s *RuleService) List(ctx context.Context, tenantID uuid.UUID) ([]RuleResponse, error) {
	saved, err := s.ruleRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	byEvent := make(map[string]*automation.Rule, len(saved))
	for i := range saved {
		byEvent[saved[i].Event] = &saved[i]
	}

	events := []string{
		automation.EventOSCriada,
		automation.EventOSEmProducao,
		automation.EventOSFinalizada,
		automation.EventOSAguardandoPix,
		automation.EventFinanceiroGerado,
		automation.EventPagamentoConfirmado,
		automation.EventFinanceiroPendente,
		automation.EventFinanceiroVencido,
		automation.EventOSParada,
	}

	responses := make([]RuleResponse, 0, len(events))
	for _, event := range events {
		if rule, ok := byEvent[event]; ok {
			responses = append(responses, ToRuleResponse(rule))
			continue
		}
		responses = append(responses, RuleResponse{
			Event:  event,
			Params: map[string]int{},
		})
	}
	return responses, nil
}

// Upsert creates or updates the tenant's rule for one event
func (s *RuleService) Upsert(ctx context.Context, tenantID uuid.UUID, req UpsertRuleRequest) (*RuleResponse, error) {
	if !automation.KnownEvent(req.Event) {
		return nil, shared.NewDomainError("UNKNOWN_EVENT", "Unknown automation event: "+req.Event)
	}

	rule, err := s.ruleRepo.FindEnabled(ctx, tenantID, req.Event)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	// FindEnabled only sees enabled rows; a disabled row still exists,
	// so look it up through the tenant listing before creating.
	if rule == nil {
		saved, err := s.ruleRepo.FindByTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		for i := range saved {
			if saved[i].Event == req.Event {
				rule = &saved[i]
				break
			}
		}
	}

	if rule == nil {
		rule, err = automation.NewRule(tenantID, req.Event, req.Enabled, req.Params)
		if err != nil {
			return nil, err
		}
	} else {
		rule.Enabled = req.Enabled
		if req.Params != nil {
			rule.Params = req.Params
		}
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	response := ToRuleResponse(rule)
	return &response, nil
}
