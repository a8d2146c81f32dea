package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/osworks/backend/internal/domain/billing"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBillingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE planos (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			limits TEXT NOT NULL DEFAULT '{}',
			features TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE assinaturas (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			plan_id TEXT NOT NULL,
			status TEXT NOT NULL,
			inicio DATETIME NOT NULL,
			fim DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func TestGormPlanRepository_SaveAndFindByName(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormPlanRepository(db)
	ctx := context.Background()

	plan, err := billing.NewPlan("Pro",
		map[string]int64{billing.LimitMaxUsuarios: 10, billing.LimitMaxOSMes: 0},
		map[string]bool{billing.FeaturePix: true, billing.FeatureAutomacoes: true})
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, plan))

	found, err := repo.FindByName(ctx, "Pro")
	require.NoError(t, err)
	assert.Equal(t, plan.ID, found.ID)
	assert.Equal(t, int64(10), found.Limit(billing.LimitMaxUsuarios))
	assert.True(t, found.IsUnlimited(billing.LimitMaxOSMes))
	assert.True(t, found.HasFeature(billing.FeaturePix))
	assert.False(t, found.HasFeature("estoque"))
}

func TestGormPlanRepository_FindByNameNotFound(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormPlanRepository(db)

	_, err := repo.FindByName(context.Background(), "Enterprise")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSubscriptionRepository_FindByTenantReturnsLatest(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormSubscriptionRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	planID := uuid.New()

	old, err := billing.NewTrialSubscription(tenantID, planID, 7)
	require.NoError(t, err)
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	old.UpdatedAt = old.CreatedAt
	require.NoError(t, repo.Save(ctx, old))

	current, err := billing.NewTrialSubscription(tenantID, planID, 7)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, current))

	found, err := repo.FindByTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, current.ID, found.ID)
}

func TestGormSubscriptionRepository_FindByTenantNotFound(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormSubscriptionRepository(db)

	_, err := repo.FindByTenant(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSubscriptionRepository_SaveUpdatesStatus(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormSubscriptionRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	sub, err := billing.NewTrialSubscription(tenantID, uuid.New(), 7)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sub))

	sub.Suspend()
	require.NoError(t, repo.Save(ctx, sub))

	found, err := repo.FindByTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, billing.SubscriptionSuspensa, found.Status)
}
