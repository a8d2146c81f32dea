package identity

import (
	"strings"

	"github.com/osworks/backend/internal/domain/shared"
)

// Tenant represents an isolated company account. All business data is
// partitioned by the tenant ID. A tenant is deactivated, never deleted,
// to suspend access.
type Tenant struct {
	shared.BaseEntity
	Name     string
	Document string
	Active   bool
}

// NewTenant creates a new active tenant
func NewTenant(name, document string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	return &Tenant{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Document:   strings.TrimSpace(document),
		Active:     true,
	}, nil
}

// Deactivate suspends access for the tenant
func (t *Tenant) Deactivate() {
	t.Active = false
}

// Activate re-enables access for the tenant
func (t *Tenant) Activate() {
	t.Active = true
}
