package partner

import (
	"context"
	"strings"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Client is a customer of a tenant. The phone number is the delivery
// address for outbound WhatsApp notifications; an empty phone causes
// notification executions to be skipped, never to fail.
type Client struct {
	shared.TenantEntity
	Name     string
	Phone    string
	Email    string
	Document string
	Notes    string
}

// NewClient creates a new client for a tenant
func NewClient(tenantID uuid.UUID, name, phone, email, document string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	return &Client{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		Phone:        strings.TrimSpace(phone),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Document:     strings.TrimSpace(document),
	}, nil
}

// HasPhone reports whether the client can receive WhatsApp messages
func (c *Client) HasPhone() bool {
	return strings.TrimSpace(c.Phone) != ""
}

// ClientRepository persists clients within the current tenant scope
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, int64, error)
	Save(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}
