// Package integration runs the backend against a real PostgreSQL
// instance started through testcontainers, with the schema applied
// from the migrations directory.
package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/osworks/backend/internal/domain/identity"
	"github.com/osworks/backend/internal/domain/partner"
	"github.com/osworks/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// TestDB is a migrated database backed by a dedicated container.
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	t         *testing.T
}

// NewTestDB starts a fresh PostgreSQL container, applies all
// migrations, and registers cleanup with the test. Each call gets an
// isolated database.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("osworks_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "container connection string")

	db, sqlDB := openGorm(t, dsn)
	applyMigrations(t, sqlDB)

	testDB := &TestDB{DB: db, SqlDB: sqlDB, Container: container, t: t}
	t.Cleanup(testDB.close)
	return testDB
}

func (tdb *TestDB) close() {
	if tdb.SqlDB != nil {
		_ = tdb.SqlDB.Close()
	}
	if tdb.Container != nil {
		if err := tdb.Container.Terminate(context.Background()); err != nil {
			tdb.t.Logf("terminate container: %v", err)
		}
	}
}

func openGorm(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	logMode := gormlogger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		logMode = gormlogger.Info
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	require.NoError(t, err, "open gorm connection")

	sqlDB, err := db.DB()
	require.NoError(t, err, "unwrap sql.DB")
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	return db, sqlDB
}

func applyMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	dir := migrationsDir()
	require.NotEmpty(t, dir, "migrations directory not found")

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err, "migration driver")

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	require.NoError(t, err, "migrate instance")

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "apply migrations")
	}
}

// migrationsDir walks up from this file until it finds the migrations
// directory at the repository root.
func migrationsDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	dir := filepath.Dir(filename)
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "migrations")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	return ""
}

// tenantContext returns a context carrying the tenant the scoping
// callback keys on.
func tenantContext(tenantID uuid.UUID) context.Context {
	ctx, _ := logger.WithTenantID(context.Background(), zap.NewNop(), tenantID.String())
	return ctx
}

// createTenant seeds a tenant through the repository so foreign keys
// on tenant_id resolve.
func createTenant(t *testing.T, repo identity.TenantRepository, name string) *identity.Tenant {
	t.Helper()
	tn, err := identity.NewTenant(name, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), tn))
	return tn
}

func createClient(t *testing.T, repo partner.ClientRepository, ctx context.Context, tenantID uuid.UUID, name string) *partner.Client {
	t.Helper()
	client, err := partner.NewClient(tenantID, name, "11987654321", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, client))
	return client
}
