package models

import (
	"github.com/osworks/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product entity
type ProductModel struct {
	TenantModel
	Name   string          `gorm:"type:varchar(200);not null"`
	Code   string          `gorm:"type:varchar(50);uniqueIndex:idx_product_tenant_code,priority:2"`
	Price  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Unit   string          `gorm:"type:varchar(10);not null;default:'un'"`
	Active bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "produtos"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		TenantEntity: m.ToDomainTenantEntity(),
		Name:         m.Name,
		Code:         m.Code,
		Price:        m.Price,
		Unit:         m.Unit,
		Active:       m.Active,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainTenantEntity(p.TenantEntity)
	m.Name = p.Name
	m.Code = p.Code
	m.Price = p.Price
	m.Unit = p.Unit
	m.Active = p.Active
}
