package models

import (
	"github.com/osworks/backend/internal/domain/partner"
)

// ClientModel is the persistence model for the Client entity
type ClientModel struct {
	TenantModel
	Name     string `gorm:"type:varchar(200);not null"`
	Phone    string `gorm:"type:varchar(30);index"`
	Email    string `gorm:"type:varchar(200)"`
	Document string `gorm:"type:varchar(30)"`
	Notes    string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clientes"
}

// ToDomain converts the persistence model to a domain Client
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		TenantEntity: m.ToDomainTenantEntity(),
		Name:         m.Name,
		Phone:        m.Phone,
		Email:        m.Email,
		Document:     m.Document,
		Notes:        m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Client
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainTenantEntity(c.TenantEntity)
	m.Name = c.Name
	m.Phone = c.Phone
	m.Email = c.Email
	m.Document = c.Document
	m.Notes = c.Notes
}
