package billing

import (
	"context"
	"testing"
	"time"

	"github.com/osworks/backend/internal/domain/billing"
	"github.com/osworks/backend/internal/domain/identity"
	"github.com/osworks/backend/internal/domain/service"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSubscriptionRepository mocks billing.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*billing.Subscription, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Save(ctx context.Context, subscription *billing.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

// MockPlanRepository mocks billing.PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Plan), args.Error(1)
}

func (m *MockPlanRepository) FindByName(ctx context.Context, name string) (*billing.Plan, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Plan), args.Error(1)
}

func (m *MockPlanRepository) Save(ctx context.Context, plan *billing.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

// MockUserRepository mocks identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
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

func (m *MockOrderRepository) NextNumber(ctx context.Context, tenantID uuid.UUID, year int) (string, error) {
	args := m.Called(ctx, tenantID, year)
	return args.String(0), args.Error(1)
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

type subscriptionFixture struct {
	subscriptionRepo *MockSubscriptionRepository
	planRepo         *MockPlanRepository
	userRepo         *MockUserRepository
	orderRepo        *MockOrderRepository
	svc              *SubscriptionService
}

func newSubscriptionFixture() *subscriptionFixture {
	f := &subscriptionFixture{
		subscriptionRepo: new(MockSubscriptionRepository),
		planRepo:         new(MockPlanRepository),
		userRepo:         new(MockUserRepository),
		orderRepo:        new(MockOrderRepository),
	}
	f.svc = NewSubscriptionService(f.subscriptionRepo, f.planRepo, f.userRepo, f.orderRepo)
	return f
}

func newTestPlan(t *testing.T, limits map[string]int64, features map[string]bool) *billing.Plan {
	t.Helper()
	plan, err := billing.NewPlan("profissional", limits, features)
	assert.NoError(t, err)
	return plan
}

func TestSubscriptionService_IsReadOnly_ExpiredTrial(t *testing.T) {
	f := newSubscriptionFixture()
	tenantID := uuid.New()

	subscription, err := billing.NewTrialSubscription(tenantID, uuid.New(), 14)
	assert.NoError(t, err)
	expired := time.Now().AddDate(0, 0, -1)
	subscription.Fim = &expired

	f.subscriptionRepo.On("FindByTenant", mock.Anything, tenantID).Return(subscription, nil)

	readOnly, err := f.svc.IsReadOnly(context.Background(), tenantID)
	assert.NoError(t, err)
	assert.True(t, readOnly)
}

func TestSubscriptionService_IsReadOnly_ActiveTrial(t *testing.T) {
	f := newSubscriptionFixture()
	tenantID := uuid.New()

	subscription, err := billing.NewTrialSubscription(tenantID, uuid.New(), 14)
	assert.NoError(t, err)

	f.subscriptionRepo.On("FindByTenant", mock.Anything, tenantID).Return(subscription, nil)

	readOnly, err := f.svc.IsReadOnly(context.Background(), tenantID)
	assert.NoError(t, err)
	assert.False(t, readOnly)
}

func TestSubscriptionService_IsReadOnly_NoSubscription(t *testing.T) {
	f := newSubscriptionFixture()
	tenantID := uuid.New()

	f.subscriptionRepo.On("FindByTenant", mock.Anything, tenantID).Return(nil, shared.ErrNotFound)

	readOnly, err := f.svc.IsReadOnly(context.Background(), tenantID)
	assert.NoError(t, err)
	assert.True(t, readOnly)
}

func TestSubscriptionService_CheckLimit_OrdersAtCeiling(t *testing.T) {
	f := newSubscriptionFixture()
	tenantID := uuid.New()

	plan := newTestPlan(t, map[string]int64{billing.LimitMaxOSMes: 50}, nil)
	subscription, err := billing.NewTrialSubscription(tenantID, plan.ID, 14)
	assert.NoError(t, err)

	f.subscriptionRepo.On("FindByTenant", mock.Anything, tenantID).Return(subscription, nil)
	f.planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)
	f.orderRepo.On("CountCreatedInMonth", mock.Anything, tenantID, mock.Anything).Return(int64(50), nil)

	check, err := f.svc.CheckLimit(context.Background(), tenantID, billing.LimitMaxOSMes)
	assert.NoError(t, err)
	assert.False(t, check.Allowed)
	assert.Equal(t, int64(50), check.Current)
	assert.Equal(t, int64(50), check.Max)
}

func TestSubscriptionService_CheckLimit_UnderCeiling(t *testing.T) {
	f := newSubscriptionFixture()
	tenantID := uuid.New()

	plan := newTestPlan(t, map[string]int64{billing.LimitMaxUsuarios: 5}, nil)
	subscription, err := billing.NewTrialSubscription(tenantID, plan.ID, 14)
	assert.NoError(t, err)

	f.subscriptionRepo.On("FindByTenant", mock.Anything, tenantID).Return(subscription, nil)
	f.planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)
	f.userRepo.On("CountActive", mock.Anything, tenantID).Return(int64(3), nil)

	check, err := f.svc.CheckLimit(context.Background(), tenantID, billing.LimitMaxUsuarios)
	assert.NoError(t, err)
	assert.True(t, check.Allowed)
	assert.Equal(t, int64(3), check.Current)
}

func TestSubscriptionService_CheckLimit_ZeroMeansUnlimited(t *testing.T) {
	f := newSubscriptionFixture()
	tenantID := uuid.New()

	plan := newTestPlan(t, map[string]int64{}, nil)
	subscription, err := billing.NewTrialSubscription(tenantID, plan.ID, 14)
	assert.NoError(t, err)

	f.subscriptionRepo.On("FindByTenant", mock.Anything, tenantID).Return(subscription, nil)
	f.planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)

	check, err := f.svc.CheckLimit(context.Background(), tenantID, billing.LimitMaxOSMes)
	assert.NoError(t, err)
	assert.True(t, check.Allowed)
	f.orderRepo.AssertNotCalled(t, "CountCreatedInMonth", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubscriptionService_HasFeature(t *testing.T) {
	f := newSubscriptionFixture()
	tenantID := uuid.New()

	plan := newTestPlan(t, nil, map[string]bool{billing.FeatureWhatsApp: true})
	subscription, err := billing.NewTrialSubscription(tenantID, plan.ID, 14)
	assert.NoError(t, err)

	f.subscriptionRepo.On("FindByTenant", mock.Anything, tenantID).Return(subscription, nil)
	f.planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)

	hasWhatsApp, err := f.svc.HasFeature(context.Background(), tenantID, billing.FeatureWhatsApp)
	assert.NoError(t, err)
	assert.True(t, hasWhatsApp)

	hasPix, err := f.svc.HasFeature(context.Background(), tenantID, billing.FeaturePix)
	assert.NoError(t, err)
	assert.False(t, hasPix)
}

func TestSubscriptionService_ChangePlan_Activates(t *testing.T) {
	f := newSubscriptionFixture()
	tenantID := uuid.New()

	oldPlan := newTestPlan(t, nil, nil)
	newPlan, err := billing.NewPlan("premium", map[string]int64{billing.LimitMaxOSMes: 500}, nil)
	assert.NoError(t, err)
	subscription, err := billing.NewTrialSubscription(tenantID, oldPlan.ID, 14)
	assert.NoError(t, err)

	f.subscriptionRepo.On("FindByTenant", mock.Anything, tenantID).Return(subscription, nil)
	f.planRepo.On("FindByName", mock.Anything, "premium").Return(newPlan, nil)
	f.subscriptionRepo.On("Save", mock.Anything, mock.MatchedBy(func(s *billing.Subscription) bool {
		return s.PlanID == newPlan.ID && s.Status == billing.SubscriptionAtiva
	})).Return(nil)

	result, err := f.svc.ChangePlan(context.Background(), tenantID, &ChangePlanRequest{PlanName: "premium"})
	assert.NoError(t, err)
	assert.Equal(t, "ativa", result.Status)
	assert.False(t, result.ReadOnly)
	assert.Equal(t, "premium", result.Plan.Name)
	f.subscriptionRepo.AssertExpectations(t)
}
