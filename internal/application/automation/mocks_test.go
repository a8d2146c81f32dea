package automation

import (
	"context"
	"time"

	"github.com/osworks/backend/internal/domain/automation"
	"github.com/osworks/backend/internal/domain/finance"
	"github.com/osworks/backend/internal/domain/partner"
	"github.com/osworks/backend/internal/domain/service"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/osworks/backend/internal/infrastructure/messaging"
	"github.com/osworks/backend/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRuleRepository mocks automation.RuleRepository
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindEnabled(ctx context.Context, tenantID uuid.UUID, event string) (*automation.Rule, error) {
	args := m.Called(ctx, tenantID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*automation.Rule), args.Error(1)
}

func (m *MockRuleRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]automation.Rule, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]automation.Rule), args.Error(1)
}

func (m *MockRuleRepository) FindTenantsWithEnabled(ctx context.Context, event string) ([]automation.Rule, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]automation.Rule), args.Error(1)
}

func (m *MockRuleRepository) Save(ctx context.Context, rule *automation.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

// MockExecutionRepository mocks automation.ExecutionRepository
type MockExecutionRepository struct {
	mock.Mock
}

func (m *MockExecutionRepository) FindByID(ctx context.Context, id uuid.UUID) (*automation.Execution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*automation.Execution), args.Error(1)
}

func (m *MockExecutionRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]automation.Execution, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]automation.Execution), args.Get(1).(int64), args.Error(2)
}

func (m *MockExecutionRepository) Save(ctx context.Context, execution *automation.Execution) error {
	args := m.Called(ctx, execution)
	return args.Error(0)
}

// MockOrderRepository mocks service.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*service.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]service.Order, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]service.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *service.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CountCreatedInMonth(ctx context.Context, tenantID uuid.UUID, ref time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, ref)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) FindStalled(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]service.Order, error) {
	args := m.Called(ctx, tenantID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Order), args.Error(1)
}

func (m *MockOrderRepository) NextNumber(ctx context.Context, tenantID uuid.UUID, year int) (string, error) {
	args := m.Called(ctx, tenantID, year)
	return args.String(0), args.Error(1)
}

// MockLedgerRepository mocks finance.LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.LedgerEntry, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]finance.LedgerEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerRepository) Save(ctx context.Context, entry *finance.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindPendingDueOn(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]finance.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.LedgerEntry), args.Error(1)
}

// MockPaymentRepository mocks finance.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByLedgerEntry(ctx context.Context, ledgerEntryID uuid.UUID) (*finance.Payment, error) {
	args := m.Called(ctx, ledgerEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindPendingForResend(ctx context.Context, cutoff, minLedgerAge time.Time) ([]finance.Payment, error) {
	args := m.Called(ctx, cutoff, minLedgerAge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Payment), args.Error(1)
}

// MockClientRepository mocks partner.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Client, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partner.Client), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientRepository) Save(ctx context.Context, client *partner.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockJobQueue mocks the scheduler queue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) Submit(job *scheduler.Job) error {
	args := m.Called(job)
	return args.Error(0)
}

// MockNotifier mocks messaging.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, input messaging.SendInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// stubFeatureGate grants every feature except the denied ones
type stubFeatureGate struct {
	denied map[string]bool
	err    error
}

func (s *stubFeatureGate) HasFeature(ctx context.Context, tenantID uuid.UUID, feature string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return !s.denied[feature], nil
}
