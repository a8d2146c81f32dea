package integration

import (
	"context"
	"testing"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/osworks/backend/internal/infrastructure/persistence"
	"github.com/osworks/backend/internal/infrastructure/persistence/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantIsolation_QueriesAreScoped(t *testing.T) {
	testDB := NewTestDB(t)
	tenant.EnableAutoTenantFilter(testDB.DB, false)

	tenantRepo := persistence.NewGormTenantRepository(testDB.DB)
	clientRepo := persistence.NewGormClientRepository(testDB.DB)

	tenantA := createTenant(t, tenantRepo, "Oficina A")
	tenantB := createTenant(t, tenantRepo, "Oficina B")

	ctxA := tenantContext(tenantA.ID)
	ctxB := tenantContext(tenantB.ID)

	clientA := createClient(t, clientRepo, ctxA, tenantA.ID, "Maria Silva")
	createClient(t, clientRepo, ctxB, tenantB.ID, "João Souza")

	// Each tenant only sees its own rows
	clientsA, totalA, err := clientRepo.FindAll(ctxA, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), totalA)
	require.Len(t, clientsA, 1)
	assert.Equal(t, clientA.ID, clientsA[0].ID)

	clientsB, totalB, err := clientRepo.FindAll(ctxB, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), totalB)
	assert.NotEqual(t, clientA.ID, clientsB[0].ID)
}

func TestTenantIsolation_CrossTenantLookupNotFound(t *testing.T) {
	testDB := NewTestDB(t)
	tenant.EnableAutoTenantFilter(testDB.DB, false)

	tenantRepo := persistence.NewGormTenantRepository(testDB.DB)
	clientRepo := persistence.NewGormClientRepository(testDB.DB)

	tenantA := createTenant(t, tenantRepo, "Oficina A")
	tenantB := createTenant(t, tenantRepo, "Oficina B")

	ctxA := tenantContext(tenantA.ID)
	clientA := createClient(t, clientRepo, ctxA, tenantA.ID, "Maria Silva")

	// Looking up A's client under B's scope behaves like a missing row
	_, err := clientRepo.FindByID(tenantContext(tenantB.ID), clientA.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTenantIsolation_BackgroundContextSeesAllTenants(t *testing.T) {
	testDB := NewTestDB(t)
	tenant.EnableAutoTenantFilter(testDB.DB, false)

	tenantRepo := persistence.NewGormTenantRepository(testDB.DB)
	clientRepo := persistence.NewGormClientRepository(testDB.DB)

	tenantA := createTenant(t, tenantRepo, "Oficina A")
	tenantB := createTenant(t, tenantRepo, "Oficina B")

	createClient(t, clientRepo, tenantContext(tenantA.ID), tenantA.ID, "Maria Silva")
	createClient(t, clientRepo, tenantContext(tenantB.ID), tenantB.ID, "João Souza")

	// Jobs run without a tenant in context and sweep every tenant
	_, total, err := clientRepo.FindAll(context.Background(), shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestTenantIsolation_CreateFillsTenantFromContext(t *testing.T) {
	testDB := NewTestDB(t)
	tenant.EnableAutoTenantFilter(testDB.DB, false)

	tenantRepo := persistence.NewGormTenantRepository(testDB.DB)
	clientRepo := persistence.NewGormClientRepository(testDB.DB)

	tenantA := createTenant(t, tenantRepo, "Oficina A")
	ctxA := tenantContext(tenantA.ID)

	client := createClient(t, clientRepo, ctxA, tenantA.ID, "Maria Silva")

	found, err := clientRepo.FindByID(ctxA, client.ID)
	require.NoError(t, err)
	assert.Equal(t, tenantA.ID, found.TenantID)
}
