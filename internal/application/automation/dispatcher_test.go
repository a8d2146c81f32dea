package automation

import (
	"context"
	"testing"

	"github.com/osworks/backend/internal/domain/automation"
	"github.com/osworks/backend/internal/domain/service"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/osworks/backend/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newTestOrder(t *testing.T, tenantID uuid.UUID) *service.Order {
	t.Helper()
	order, err := service.NewOrder(tenantID, uuid.New(), "Maria Silva", "0001/2026", "Conserto de bomba")
	assert.NoError(t, err)
	err = order.AddItem(uuid.New(), "Mão de obra", decimal.NewFromInt(1), decimal.NewFromFloat(150.00))
	assert.NoError(t, err)
	return order
}

func TestDispatcher_EventTypes(t *testing.T) {
	dispatcher := NewDispatcher(nil, nil, nil, zap.NewNop())

	eventTypes := dispatcher.EventTypes()
	assert.Contains(t, eventTypes, service.EventTypeOrderCreated)
	assert.Contains(t, eventTypes, "LedgerGenerated")
	assert.Contains(t, eventTypes, "PaymentConfirmed")
	assert.NotContains(t, eventTypes, service.EventTypeOrderCancelled)
}

func TestDispatcher_Handle_OrderCreated_RuleEnabled(t *testing.T) {
	tenantID := uuid.New()
	ruleRepo := new(MockRuleRepository)
	executionRepo := new(MockExecutionRepository)
	queue := new(MockJobQueue)
	dispatcher := NewDispatcher(ruleRepo, executionRepo, queue, zap.NewNop())

	order := newTestOrder(t, tenantID)
	event := service.NewOrderCreatedEvent(order)

	rule, err := automation.NewRule(tenantID, automation.EventOSCriada, true, nil)
	assert.NoError(t, err)
	ruleRepo.On("FindEnabled", mock.Anything, tenantID, automation.EventOSCriada).Return(rule, nil)

	var savedID uuid.UUID
	executionRepo.On("Save", mock.Anything, mock.MatchedBy(func(e *automation.Execution) bool {
		savedID = e.ID
		return e.TenantID == tenantID &&
			e.Event == automation.EventOSCriada &&
			e.Action == automation.ActionOSCriada &&
			e.EntityType == automation.EntityOrdemServico &&
			e.EntityID == order.ID &&
			e.Status == automation.ExecutionQueued
	})).Return(nil)
	queue.On("Submit", mock.MatchedBy(func(job *scheduler.Job) bool {
		return job.ExecutionID == savedID && job.TenantID == tenantID
	})).Return(nil)

	err = dispatcher.Handle(context.Background(), event)
	assert.NoError(t, err)
	executionRepo.AssertExpectations(t)
	queue.AssertExpectations(t)
}

func TestDispatcher_Handle_NoEnabledRule(t *testing.T) {
	tenantID := uuid.New()
	ruleRepo := new(MockRuleRepository)
	executionRepo := new(MockExecutionRepository)
	queue := new(MockJobQueue)
	dispatcher := NewDispatcher(ruleRepo, executionRepo, queue, zap.NewNop())

	order := newTestOrder(t, tenantID)
	ruleRepo.On("FindEnabled", mock.Anything, tenantID, automation.EventOSCriada).
		Return(nil, shared.ErrNotFound)

	err := dispatcher.Handle(context.Background(), service.NewOrderCreatedEvent(order))
	assert.NoError(t, err)
	executionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	queue.AssertNotCalled(t, "Submit", mock.Anything)
}

func TestDispatcher_Dispatch_QueueFull(t *testing.T) {
	tenantID := uuid.New()
	ruleRepo := new(MockRuleRepository)
	executionRepo := new(MockExecutionRepository)
	queue := new(MockJobQueue)
	dispatcher := NewDispatcher(ruleRepo, executionRepo, queue, zap.NewNop())

	rule, err := automation.NewRule(tenantID, automation.EventOSCriada, true, nil)
	assert.NoError(t, err)
	ruleRepo.On("FindEnabled", mock.Anything, tenantID, automation.EventOSCriada).Return(rule, nil)
	executionRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	queue.On("Submit", mock.Anything).Return(scheduler.ErrJobQueueFull)

	// The execution row survives the full queue; dispatch does not fail
	err = dispatcher.Dispatch(context.Background(), tenantID, automation.EventOSCriada,
		automation.EntityOrdemServico, uuid.New(), automation.OrderPayload{Numero: "0001/2026"})
	assert.NoError(t, err)
	executionRepo.AssertExpectations(t)
}

func TestDispatcher_Handle_CancelledOrderIgnored(t *testing.T) {
	ruleRepo := new(MockRuleRepository)
	executionRepo := new(MockExecutionRepository)
	dispatcher := NewDispatcher(ruleRepo, executionRepo, new(MockJobQueue), zap.NewNop())

	order := newTestOrder(t, uuid.New())
	event := service.NewOrderCancelledEvent(order)

	err := dispatcher.Handle(context.Background(), event)
	assert.NoError(t, err)
	ruleRepo.AssertNotCalled(t, "FindEnabled", mock.Anything, mock.Anything, mock.Anything)
}
