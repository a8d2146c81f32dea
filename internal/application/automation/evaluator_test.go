package automation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/osworks/backend/internal/domain/automation"
	"github.com/osworks/backend/internal/domain/finance"
	"github.com/osworks/backend/internal/domain/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newEvaluatorFixture() (*ScheduledEvaluator, *MockRuleRepository, *MockLedgerRepository, *MockOrderRepository, *MockExecutionRepository, *MockJobQueue) {
	ruleRepo := new(MockRuleRepository)
	ledgerRepo := new(MockLedgerRepository)
	orderRepo := new(MockOrderRepository)
	executionRepo := new(MockExecutionRepository)
	queue := new(MockJobQueue)
	dispatcher := NewDispatcher(ruleRepo, executionRepo, queue, zap.NewNop())
	evaluator := NewScheduledEvaluator(dispatcher, ruleRepo, ledgerRepo, orderRepo, zap.NewNop())
	return evaluator, ruleRepo, ledgerRepo, orderRepo, executionRepo, queue
}

func TestScheduledEvaluator_StalledOrder(t *testing.T) {
	evaluator, ruleRepo, ledgerRepo, orderRepo, executionRepo, queue := newEvaluatorFixture()

	tenantID := uuid.New()
	now := time.Now()

	rule, err := automation.NewRule(tenantID, automation.EventOSParada, true,
		map[string]int{automation.ParamDias: 3})
	assert.NoError(t, err)

	order, err := service.NewOrder(tenantID, uuid.New(), "João Souza", "0007/2026", "")
	assert.NoError(t, err)
	order.UpdatedAt = now.AddDate(0, 0, -4)
	order.History = nil

	ruleRepo.On("FindTenantsWithEnabled", mock.Anything, automation.EventOSParada).
		Return([]automation.Rule{*rule}, nil)
	ruleRepo.On("FindTenantsWithEnabled", mock.Anything, mock.Anything).
		Return([]automation.Rule{}, nil)
	orderRepo.On("FindStalled", mock.Anything, tenantID, mock.MatchedBy(func(cutoff time.Time) bool {
		expected := now.AddDate(0, 0, -3)
		return cutoff.Sub(expected).Abs() < time.Second
	})).Return([]service.Order{*order}, nil)

	ruleRepo.On("FindEnabled", mock.Anything, tenantID, automation.EventOSParada).Return(rule, nil)
	executionRepo.On("Save", mock.Anything, mock.MatchedBy(func(e *automation.Execution) bool {
		var payload automation.OrderPayload
		if err := json.Unmarshal(e.PayloadData, &payload); err != nil {
			return false
		}
		return e.EntityID == order.ID &&
			e.Action == automation.ActionAvisoOSParada &&
			payload.OrdemServicoID == order.ID &&
			payload.StatusAtual == "aberta" &&
			payload.Dias == 3
	})).Return(nil).Once()
	queue.On("Submit", mock.Anything).Return(nil).Once()

	err = evaluator.Run(context.Background(), now)
	assert.NoError(t, err)
	executionRepo.AssertExpectations(t)
	queue.AssertExpectations(t)
	ledgerRepo.AssertNotCalled(t, "FindPendingDueOn", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduledEvaluator_OverdueLedger(t *testing.T) {
	evaluator, ruleRepo, ledgerRepo, _, executionRepo, queue := newEvaluatorFixture()

	tenantID := uuid.New()
	now := time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC)
	dueDate := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	rule, err := automation.NewRule(tenantID, automation.EventFinanceiroVencido, true,
		map[string]int{automation.ParamDias: 2})
	assert.NoError(t, err)

	entry, err := finance.NewLedgerEntry(tenantID, uuid.New(), nil, "OS 0003/2026",
		decimal.NewFromFloat(320.50), dueDate)
	assert.NoError(t, err)

	ruleRepo.On("FindTenantsWithEnabled", mock.Anything, automation.EventFinanceiroVencido).
		Return([]automation.Rule{*rule}, nil)
	ruleRepo.On("FindTenantsWithEnabled", mock.Anything, mock.Anything).
		Return([]automation.Rule{}, nil)

	// dias=2 looking back from Jan 12 lands on the Jan 10 due date
	ledgerRepo.On("FindPendingDueOn", mock.Anything, tenantID, mock.MatchedBy(func(target time.Time) bool {
		return target.Year() == 2026 && target.Month() == time.January && target.Day() == 10
	})).Return([]finance.LedgerEntry{*entry}, nil)

	ruleRepo.On("FindEnabled", mock.Anything, tenantID, automation.EventFinanceiroVencido).Return(rule, nil)
	executionRepo.On("Save", mock.Anything, mock.MatchedBy(func(e *automation.Execution) bool {
		var payload automation.LedgerPayload
		if err := json.Unmarshal(e.PayloadData, &payload); err != nil {
			return false
		}
		return e.EntityID == entry.ID &&
			e.Action == automation.ActionLembretePagamento &&
			payload.LancamentoID == entry.ID &&
			payload.Dias == 2
	})).Return(nil).Once()
	queue.On("Submit", mock.Anything).Return(nil).Once()

	err = evaluator.Run(context.Background(), now)
	assert.NoError(t, err)
	executionRepo.AssertExpectations(t)
}

func TestScheduledEvaluator_MalformedDiasSkipped(t *testing.T) {
	evaluator, ruleRepo, ledgerRepo, orderRepo, executionRepo, _ := newEvaluatorFixture()

	tenantID := uuid.New()
	rule, err := automation.NewRule(tenantID, automation.EventFinanceiroPendente, true, nil)
	assert.NoError(t, err)

	ruleRepo.On("FindTenantsWithEnabled", mock.Anything, automation.EventFinanceiroPendente).
		Return([]automation.Rule{*rule}, nil)
	ruleRepo.On("FindTenantsWithEnabled", mock.Anything, mock.Anything).
		Return([]automation.Rule{}, nil)

	err = evaluator.Run(context.Background(), time.Now())
	assert.NoError(t, err)
	ledgerRepo.AssertNotCalled(t, "FindPendingDueOn", mock.Anything, mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "FindStalled", mock.Anything, mock.Anything, mock.Anything)
	executionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
