package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/domain/identity"
)

// TenantRecord is the persistence model for the Tenant entity.
// Tenants are global rows, exempt from tenant scoping.
type TenantRecord struct {
	BaseModel
	Name     string `gorm:"type:varchar(200);not null"`
	Document string `gorm:"type:varchar(30);index"`
	Active   bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (TenantRecord) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant
func (m *TenantRecord) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Document:   m.Document,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain Tenant
func (m *TenantRecord) FromDomain(t *identity.Tenant) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Name = t.Name
	m.Document = t.Document
	m.Active = t.Active
}

// ProfileModel is the persistence model for the Profile entity.
// Permissions are stored as a JSON array.
type ProfileModel struct {
	TenantModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:idx_profile_tenant_name,priority:2"`
	Permissions string `gorm:"type:jsonb;not null;default:'[]'"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "perfis"
}

// ToDomain converts the persistence model to a domain Profile
func (m *ProfileModel) ToDomain() (*identity.Profile, error) {
	var permissions []string
	if m.Permissions != "" {
		if err := json.Unmarshal([]byte(m.Permissions), &permissions); err != nil {
			return nil, err
		}
	}
	return &identity.Profile{
		TenantEntity: m.ToDomainTenantEntity(),
		Name:         m.Name,
		Permissions:  permissions,
	}, nil
}

// FromDomain populates the persistence model from a domain Profile
func (m *ProfileModel) FromDomain(p *identity.Profile) error {
	m.FromDomainTenantEntity(p.TenantEntity)
	m.Name = p.Name
	permissions := p.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	data, err := json.Marshal(permissions)
	if err != nil {
		return err
	}
	m.Permissions = string(data)
	return nil
}

// UserModel is the persistence model for the User entity
type UserModel struct {
	TenantModel
	Name         string    `gorm:"type:varchar(200);not null"`
	Email        string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_user_tenant_email,priority:2"`
	PasswordHash string    `gorm:"type:varchar(100);not null"`
	ProfileID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Active       bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "usuarios"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantEntity: m.ToDomainTenantEntity(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		ProfileID:    m.ProfileID,
		Active:       m.Active,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantEntity(u.TenantEntity)
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.ProfileID = u.ProfileID
	m.Active = u.Active
}
