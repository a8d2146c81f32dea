// Package partner contains application services for the tenant's
// customer base.
package partner

import (
	"context"
	"time"

	"github.com/osworks/backend/internal/domain/partner"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/osworks/backend/internal/infrastructure/messaging"
	"github.com/google/uuid"
)

// CreateClientRequest creates a client
type CreateClientRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=150"`
	Phone    string `json:"phone" binding:"max=20"`
	Email    string `json:"email" binding:"omitempty,email"`
	Document string `json:"document" binding:"max=20"`
	Notes    string `json:"notes" binding:"max=1000"`
}

// UpdateClientRequest updates mutable client fields
type UpdateClientRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=150"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Document *string `json:"document" binding:"omitempty,max=20"`
	Notes    *string `json:"notes" binding:"omitempty,max=1000"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Document  string    `json:"document"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// ToClientResponse converts a domain client to a response
func ToClientResponse(client *partner.Client) ClientResponse {
	return ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Phone:     client.Phone,
		Email:     client.Email,
		Document:  client.Document,
		Notes:     client.Notes,
		CreatedAt: client.CreatedAt,
	}
}

// ClientService manages the tenant's clients
type ClientService struct {
	clientRepo partner.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// Create registers a new client. The phone number is normalized at
// creation so notification sends never re-derive it.
func (s *ClientService) Create(ctx context.Context, tenantID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	phone := req.Phone
	if phone != "" {
		normalized, err := messaging.NormalizePhone(phone)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PHONE", "Phone number is not a valid Brazilian mobile number")
		}
		phone = normalized
	}

	client, err := partner.NewClient(tenantID, req.Name, phone, req.Email, req.Document)
	if err != nil {
		return nil, err
	}
	client.Notes = req.Notes

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// Get returns one client
func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// List returns a page of clients
func (s *ClientService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ClientResponse], error) {
	clients, total, err := s.clientRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update mutates client fields
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Phone != nil {
		phone := *req.Phone
		if phone != "" {
			normalized, err := messaging.NormalizePhone(phone)
			if err != nil {
				return nil, shared.NewDomainError("INVALID_PHONE", "Phone number is not a valid Brazilian mobile number")
			}
			phone = normalized
		}
		client.Phone = phone
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Document != nil {
		client.Document = *req.Document
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// Delete removes a client
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.clientRepo.Delete(ctx, id)
}
