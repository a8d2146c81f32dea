package identity

import (
	"strings"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AdminProfileName is the reserved profile name that bypasses every
// permission check (case-insensitive match).
const AdminProfileName = "admin"

// PermissionWildcard grants every permission when present in a
// profile's permission set.
const PermissionWildcard = "*"

// Profile is a named role grouping a set of permission keys.
// Permission keys are dotted strings such as "clientes.view".
type Profile struct {
	shared.TenantEntity
	Name        string
	Permissions []string
}

// NewProfile creates a new profile for a tenant
func NewProfile(tenantID uuid.UUID, name string, permissions []string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Profile name cannot be empty")
	}
	return &Profile{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		Permissions:  permissions,
	}, nil
}

// IsAdmin reports whether this profile is the superuser profile
func (p *Profile) IsAdmin() bool {
	return strings.EqualFold(p.Name, AdminProfileName)
}

// HasPermission reports whether the profile grants the given key.
// The wildcard entry grants everything.
func (p *Profile) HasPermission(key string) bool {
	for _, perm := range p.Permissions {
		if perm == PermissionWildcard || perm == key {
			return true
		}
	}
	return false
}
