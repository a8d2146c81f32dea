// Package tenant provides multi-tenant database scoping for GORM.
//
// Every tenant-owned table carries a tenant_id column. The package
// extracts the tenant ID from the request context (set by the auth
// middleware) and applies WHERE tenant_id = ? to queries, updates and
// deletes, and fills tenant_id on inserts. Cross-tenant access is
// rejected at the persistence layer rather than left to discipline in
// each repository.
package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when tenant_id is required but not found in context
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

// ErrInvalidTenantID is returned when tenant_id format is invalid
var ErrInvalidTenantID = errors.New("invalid tenant_id format")

// ErrTenantMismatch is returned when a record carries a tenant_id that
// differs from the tenant in context
var ErrTenantMismatch = errors.New("record tenant_id does not match context tenant")

// Scope applies tenant filtering to GORM queries
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// ScopeString applies tenant filtering using a string tenant ID
func ScopeString(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// DB wraps a GORM DB with automatic tenant scoping
type DB struct {
	db       *gorm.DB
	required bool
}

// NewDB creates a tenant-scoped DB wrapper. When required is true any
// operation without a tenant in context fails with ErrTenantIDRequired.
func NewDB(db *gorm.DB, required bool) *DB {
	return &DB{db: db, required: required}
}

// WithContext returns a GORM DB scoped to the tenant carried in ctx
func (t *DB) WithContext(ctx context.Context) *gorm.DB {
	tenantID := logger.GetTenantID(ctx)

	if tenantID == "" {
		db := t.db.WithContext(ctx)
		if t.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return db
	}

	if _, err := uuid.Parse(tenantID); err != nil {
		db := t.db.WithContext(ctx)
		_ = db.AddError(ErrInvalidTenantID)
		return db
	}

	return t.db.WithContext(ctx).Scopes(ScopeString(tenantID))
}

// WithTenant returns a GORM DB scoped to a specific tenant ID. Used by
// background jobs that iterate tenants outside a request.
func (t *DB) WithTenant(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	if tenantID == uuid.Nil {
		db := t.db.WithContext(ctx)
		_ = db.AddError(ErrTenantIDRequired)
		return db
	}
	ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID.String())
	return t.db.WithContext(ctx).Scopes(Scope(tenantID))
}

// Transaction executes fn within a database transaction with tenant scope
func (t *DB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tenantID := logger.GetTenantID(ctx)
	if tenantID == "" && t.required {
		return ErrTenantIDRequired
	}

	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tenantID != "" {
			tx = tx.Scopes(ScopeString(tenantID))
		}
		return fn(tx)
	})
}

// Unscoped returns the underlying DB without tenant scoping. Reserved
// for system-level operations such as migrations and tenant onboarding.
func (t *DB) Unscoped() *gorm.DB {
	return t.db
}
