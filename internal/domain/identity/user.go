package identity

import (
	"strings"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// User belongs to exactly one tenant and carries a profile that grants
// its permission set.
type User struct {
	shared.TenantEntity
	Name         string
	Email        string
	PasswordHash string
	ProfileID    uuid.UUID
	Active       bool
}

// NewUser creates a new active user for a tenant
func NewUser(tenantID uuid.UUID, name, email, passwordHash string, profileID uuid.UUID) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "User name cannot be empty")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "User email is invalid")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if profileID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROFILE", "Profile is required")
	}
	return &User{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		ProfileID:    profileID,
		Active:       true,
	}, nil
}

// Activate marks the user as active. Plan limits on active users are
// enforced at the gate layer before this is reached.
func (u *User) Activate() {
	u.Active = true
}

// Deactivate marks the user as inactive
func (u *User) Deactivate() {
	u.Active = false
}
