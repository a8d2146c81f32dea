package identity

import (
	"context"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantRepository persists tenants. Tenants are global records and are
// not themselves tenant-scoped.
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindAllActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	Save(ctx context.Context, tenant *Tenant) error
}

// UserRepository persists users within the current tenant scope
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, int64, error)
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, user *User) error
}

// ProfileRepository persists profiles within the current tenant scope
type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindByName(ctx context.Context, name string) (*Profile, error)
	FindAll(ctx context.Context) ([]Profile, error)
	Save(ctx context.Context, profile *Profile) error
}
