package catalog

import (
	"context"
	"strings"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item or service of a tenant
type Product struct {
	shared.TenantEntity
	Name   string
	Code   string
	Price  decimal.Decimal
	Unit   string
	Active bool
}

// NewProduct creates a new active product
func NewProduct(tenantID uuid.UUID, name, code string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	return &Product{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		Code:         strings.ToUpper(strings.TrimSpace(code)),
		Price:        price,
		Unit:         "un",
		Active:       true,
	}, nil
}

// Deactivate removes the product from sale without deleting history
func (p *Product) Deactivate() {
	p.Active = false
}

// ProductRepository persists products within the current tenant scope
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByCode(ctx context.Context, code string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}
