package finance

import (
	"context"
	"testing"
	"time"

	"github.com/osworks/backend/internal/domain/finance"
	"github.com/osworks/backend/internal/domain/service"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

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

// MockEventPublisher mocks shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newPendingEntry(t *testing.T, tenantID uuid.UUID) *finance.LedgerEntry {
	t.Helper()
	entry, err := finance.NewLedgerEntry(tenantID, uuid.New(), nil, "OS 0001/2026",
		decimal.NewFromFloat(250.00), time.Now().AddDate(0, 0, 7))
	assert.NoError(t, err)
	entry.ClearDomainEvents()
	return entry
}

func TestFinanceService_ConfirmPayment_WithPendingCharge(t *testing.T) {
	ledgerRepo := new(MockLedgerRepository)
	paymentRepo := new(MockPaymentRepository)
	publisher := new(MockEventPublisher)
	svc := NewFinanceService(ledgerRepo, paymentRepo, publisher)

	tenantID := uuid.New()
	entry := newPendingEntry(t, tenantID)
	payment, err := finance.NewPayment(tenantID, entry.ID, entry.ClientID, "TX1", entry.Amount)
	assert.NoError(t, err)

	ledgerRepo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
	paymentRepo.On("FindByLedgerEntry", mock.Anything, entry.ID).Return(payment, nil)
	paymentRepo.On("Save", mock.Anything, mock.MatchedBy(func(p *finance.Payment) bool {
		return p.Status == finance.PaymentStatusConfirmado
	})).Return(nil)
	ledgerRepo.On("Save", mock.Anything, mock.MatchedBy(func(e *finance.LedgerEntry) bool {
		return e.Status == finance.LedgerStatusPago && e.PaidAt != nil
	})).Return(nil)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == finance.EventTypePaymentConfirmed
	})).Return(nil)

	result, err := svc.ConfirmPayment(context.Background(), entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, "pago", result.Status)
	paymentRepo.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestFinanceService_ConfirmPayment_AlreadyPaid(t *testing.T) {
	ledgerRepo := new(MockLedgerRepository)
	paymentRepo := new(MockPaymentRepository)
	svc := NewFinanceService(ledgerRepo, paymentRepo, nil)

	tenantID := uuid.New()
	entry := newPendingEntry(t, tenantID)
	payment, err := finance.NewPayment(tenantID, entry.ID, entry.ClientID, "TX1", entry.Amount)
	assert.NoError(t, err)
	assert.NoError(t, entry.MarkPaid(payment.ID))
	entry.ClearDomainEvents()

	ledgerRepo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
	paymentRepo.On("FindByLedgerEntry", mock.Anything, entry.ID).Return(payment, nil)

	_, err = svc.ConfirmPayment(context.Background(), entry.ID)
	assert.Error(t, err)
	ledgerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestFinanceService_CreatePixCharge_Idempotent(t *testing.T) {
	ledgerRepo := new(MockLedgerRepository)
	paymentRepo := new(MockPaymentRepository)
	svc := NewFinanceService(ledgerRepo, paymentRepo, nil)

	tenantID := uuid.New()
	entry := newPendingEntry(t, tenantID)
	payment, err := finance.NewPayment(tenantID, entry.ID, entry.ClientID, "TXEXISTING", entry.Amount)
	assert.NoError(t, err)

	ledgerRepo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
	paymentRepo.On("FindByLedgerEntry", mock.Anything, entry.ID).Return(payment, nil)

	result, err := svc.CreatePixCharge(context.Background(), entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, "TXEXISTING", result.TxID)
	paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrderFinalizedHandler_GeneratesLedgerEntry(t *testing.T) {
	ledgerRepo := new(MockLedgerRepository)
	publisher := new(MockEventPublisher)
	handler := NewOrderFinalizedHandler(ledgerRepo, publisher, zap.NewNop())

	tenantID := uuid.New()
	order, err := service.NewOrder(tenantID, uuid.New(), "Maria Silva", "0005/2026", "")
	assert.NoError(t, err)
	assert.NoError(t, order.AddItem(uuid.New(), "Troca de óleo", decimal.NewFromInt(1), decimal.NewFromFloat(180.00)))
	event := service.NewOrderFinalizedEvent(order)

	ledgerRepo.On("Save", mock.Anything, mock.MatchedBy(func(e *finance.LedgerEntry) bool {
		return e.TenantID == tenantID &&
			e.OrderID != nil && *e.OrderID == order.ID &&
			e.Amount.Equal(decimal.NewFromFloat(180.00)) &&
			e.Description == "OS 0005/2026" &&
			e.Status == finance.LedgerStatusPendente
	})).Return(nil).Once()
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == finance.EventTypeLedgerGenerated
	})).Return(nil)

	err = handler.Handle(context.Background(), event)
	assert.NoError(t, err)
	ledgerRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderFinalizedHandler_ZeroTotalSkipped(t *testing.T) {
	ledgerRepo := new(MockLedgerRepository)
	handler := NewOrderFinalizedHandler(ledgerRepo, nil, zap.NewNop())

	order, err := service.NewOrder(uuid.New(), uuid.New(), "Maria Silva", "0006/2026", "")
	assert.NoError(t, err)

	err = handler.Handle(context.Background(), service.NewOrderFinalizedEvent(order))
	assert.NoError(t, err)
	ledgerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
