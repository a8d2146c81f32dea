package tenant

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Callback provides GORM callback hooks for automatic tenant scoping
type Callback struct {
	tenantColumn string
	required     bool
}

// NewCallback creates a tenant callback handler
func NewCallback(tenantColumn string, required bool) *Callback {
	if tenantColumn == "" {
		tenantColumn = "tenant_id"
	}
	return &Callback{
		tenantColumn: tenantColumn,
		required:     required,
	}
}

// Register registers the tenant callbacks with GORM
func (tc *Callback) Register(db *gorm.DB) {
	_ = db.Callback().Query().Before("gorm:query").Register("tenant:before_query", tc.addTenantFilter)
	_ = db.Callback().Update().Before("gorm:update").Register("tenant:before_update", tc.addTenantFilter)
	_ = db.Callback().Delete().Before("gorm:delete").Register("tenant:before_delete", tc.addTenantFilter)
	_ = db.Callback().Row().Before("gorm:row").Register("tenant:before_row", tc.addTenantFilter)
	_ = db.Callback().Create().Before("gorm:create").Register("tenant:before_create", tc.fillTenantOnCreate)
}

// addTenantFilter adds WHERE tenant_id = ? to the statement
func (tc *Callback) addTenantFilter(db *gorm.DB) {
	if db.Statement.Context == nil || db.Statement.Unscoped {
		return
	}
	// Tables without a tenant column are global and exempt
	if db.Statement.Schema != nil && db.Statement.Schema.LookUpField(tc.tenantColumn) == nil {
		return
	}
	if tc.hasTenantCondition(db) {
		return
	}

	tenantID := logger.GetTenantID(db.Statement.Context)
	if tenantID == "" {
		if tc.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return
	}
	if _, err := uuid.Parse(tenantID); err != nil {
		_ = db.AddError(ErrInvalidTenantID)
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

// fillTenantOnCreate fills tenant_id on inserted rows from the context.
// A row that already carries a different tenant_id fails the insert.
func (tc *Callback) fillTenantOnCreate(db *gorm.DB) {
	if db.Statement.Context == nil || db.Statement.Schema == nil || db.Statement.Unscoped {
		return
	}

	field := db.Statement.Schema.LookUpField(tc.tenantColumn)
	if field == nil {
		return
	}

	tenantID := logger.GetTenantID(db.Statement.Context)
	if tenantID == "" {
		if tc.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return
	}
	parsed, err := uuid.Parse(tenantID)
	if err != nil {
		_ = db.AddError(ErrInvalidTenantID)
		return
	}

	switch db.Statement.ReflectValue.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < db.Statement.ReflectValue.Len(); i++ {
			if err := tc.setTenantField(db, field, db.Statement.ReflectValue.Index(i), parsed); err != nil {
				_ = db.AddError(err)
				return
			}
		}
	case reflect.Struct:
		if err := tc.setTenantField(db, field, db.Statement.ReflectValue, parsed); err != nil {
			_ = db.AddError(err)
		}
	}
}

func (tc *Callback) setTenantField(db *gorm.DB, field *schema.Field, rv reflect.Value, tenantID uuid.UUID) error {
	current, isZero := field.ValueOf(db.Statement.Context, rv)
	if !isZero {
		if existing, ok := current.(uuid.UUID); ok && existing != tenantID {
			return ErrTenantMismatch
		}
		if existing, ok := current.(string); ok && existing != tenantID.String() {
			return ErrTenantMismatch
		}
		return nil
	}
	return field.Set(db.Statement.Context, rv, tenantID)
}

// hasTenantCondition checks if a tenant_id condition is already present
func (tc *Callback) hasTenantCondition(db *gorm.DB) bool {
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if tc.exprContainsTenant(expr) {
					return true
				}
			}
		}
	}
	sql := db.Statement.SQL.String()
	return sql != "" && strings.Contains(sql, tc.tenantColumn)
}

func (tc *Callback) exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.Expr:
		// Raw conditions such as Where("tenant_id = ?", id) arrive here.
		return strings.Contains(e.SQL, tc.tenantColumn)
	case clause.NamedExpr:
		return strings.Contains(e.SQL, tc.tenantColumn)
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	}
	return false
}

// EnableAutoTenantFilter registers tenant callbacks on a GORM DB instance
func EnableAutoTenantFilter(db *gorm.DB, required bool) {
	NewCallback("tenant_id", required).Register(db)
}
