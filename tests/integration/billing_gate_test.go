package integration

import (
	"context"
	"testing"
	"time"

	appbilling "github.com/osworks/backend/internal/application/billing"
	"github.com/osworks/backend/internal/domain/billing"
	"github.com/osworks/backend/internal/domain/service"
	"github.com/osworks/backend/internal/infrastructure/persistence"
	"github.com/osworks/backend/internal/infrastructure/persistence/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBillingFixtures(t *testing.T, testDB *TestDB, limits map[string]int64, features map[string]bool) (*appbilling.SubscriptionService, *billing.Subscription, *billing.Plan) {
	t.Helper()
	ctx := context.Background()

	tenantRepo := persistence.NewGormTenantRepository(testDB.DB)
	planRepo := persistence.NewGormPlanRepository(testDB.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(testDB.DB)
	userRepo := persistence.NewGormUserRepository(testDB.DB)
	orderRepo := persistence.NewGormOrderRepository(testDB.DB)

	tn := createTenant(t, tenantRepo, "Oficina Teste")

	plan, err := billing.NewPlan("Essencial", limits, features)
	require.NoError(t, err)
	require.NoError(t, planRepo.Save(ctx, plan))

	sub, err := billing.NewTrialSubscription(tn.ID, plan.ID, 7)
	require.NoError(t, err)
	require.NoError(t, subscriptionRepo.Save(ctx, sub))

	svc := appbilling.NewSubscriptionService(subscriptionRepo, planRepo, userRepo, orderRepo)
	return svc, sub, plan
}

func TestBillingGate_TrialIsNotReadOnly(t *testing.T) {
	testDB := NewTestDB(t)
	tenant.EnableAutoTenantFilter(testDB.DB, false)

	svc, sub, _ := setupBillingFixtures(t, testDB,
		map[string]int64{billing.LimitMaxUsuarios: 5}, map[string]bool{billing.FeaturePix: true})

	readOnly, err := svc.IsReadOnly(context.Background(), sub.TenantID)
	require.NoError(t, err)
	assert.False(t, readOnly)
}

func TestBillingGate_SuspendedSubscriptionIsReadOnly(t *testing.T) {
	testDB := NewTestDB(t)
	tenant.EnableAutoTenantFilter(testDB.DB, false)

	svc, sub, _ := setupBillingFixtures(t, testDB,
		map[string]int64{}, map[string]bool{})

	subscriptionRepo := persistence.NewGormSubscriptionRepository(testDB.DB)
	sub.Suspend()
	require.NoError(t, subscriptionRepo.Save(context.Background(), sub))

	readOnly, err := svc.IsReadOnly(context.Background(), sub.TenantID)
	require.NoError(t, err)
	assert.True(t, readOnly)
}

func TestBillingGate_FeatureFlagComesFromPlan(t *testing.T) {
	testDB := NewTestDB(t)
	tenant.EnableAutoTenantFilter(testDB.DB, false)

	svc, sub, _ := setupBillingFixtures(t, testDB,
		map[string]int64{}, map[string]bool{billing.FeaturePix: true, billing.FeatureAutomacoes: false})

	ctx := context.Background()
	hasPix, err := svc.HasFeature(ctx, sub.TenantID, billing.FeaturePix)
	require.NoError(t, err)
	assert.True(t, hasPix)

	hasAutomation, err := svc.HasFeature(ctx, sub.TenantID, billing.FeatureAutomacoes)
	require.NoError(t, err)
	assert.False(t, hasAutomation)
}

func TestBillingGate_MonthlyOrderLimitCountsRealRows(t *testing.T) {
	testDB := NewTestDB(t)
	tenant.EnableAutoTenantFilter(testDB.DB, false)

	svc, sub, _ := setupBillingFixtures(t, testDB,
		map[string]int64{billing.LimitMaxOSMes: 1}, map[string]bool{})

	clientRepo := persistence.NewGormClientRepository(testDB.DB)
	orderRepo := persistence.NewGormOrderRepository(testDB.DB)

	ctxTenant := tenantContext(sub.TenantID)
	client := createClient(t, clientRepo, ctxTenant, sub.TenantID, "Maria Silva")

	check, err := svc.CheckLimit(context.Background(), sub.TenantID, billing.LimitMaxOSMes)
	require.NoError(t, err)
	assert.True(t, check.Allowed)
	assert.Equal(t, int64(0), check.Current)

	order, err := service.NewOrder(sub.TenantID, client.ID, client.Name, "0001/2026", "")
	require.NoError(t, err)
	require.NoError(t, orderRepo.Save(ctxTenant, order))

	check, err = svc.CheckLimit(context.Background(), sub.TenantID, billing.LimitMaxOSMes)
	require.NoError(t, err)
	assert.False(t, check.Allowed)
	assert.Equal(t, int64(1), check.Current)
	assert.Equal(t, int64(1), check.Max)
}

func TestBillingGate_ChangePlanActivatesSubscription(t *testing.T) {
	testDB := NewTestDB(t)
	tenant.EnableAutoTenantFilter(testDB.DB, false)

	svc, sub, _ := setupBillingFixtures(t, testDB,
		map[string]int64{}, map[string]bool{})

	planRepo := persistence.NewGormPlanRepository(testDB.DB)
	pro, err := billing.NewPlan("Pro", map[string]int64{}, map[string]bool{billing.FeaturePix: true})
	require.NoError(t, err)
	require.NoError(t, planRepo.Save(context.Background(), pro))

	until := time.Now().AddDate(0, 1, 0)
	status, err := svc.ChangePlan(context.Background(), sub.TenantID, &appbilling.ChangePlanRequest{
		PlanName:   "Pro",
		ValidUntil: &until,
	})
	require.NoError(t, err)
	assert.Equal(t, string(billing.SubscriptionAtiva), status.Status)
	assert.Equal(t, "Pro", status.Plan.Name)
}
