package automation

import (
	"context"

	"github.com/osworks/backend/internal/domain/automation"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ExecutionService exposes the execution history for a tenant
type ExecutionService struct {
	executionRepo automation.ExecutionRepository
}

// NewExecutionService creates a new ExecutionService
func NewExecutionService(executionRepo automation.ExecutionRepository) *ExecutionService {
	return &ExecutionService{executionRepo: executionRepo}
}

// List returns a page of the tenant's executions, newest first
func (s *ExecutionService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ExecutionResponse], error) {
	executions, total, err := s.executionRepo.FindByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ExecutionResponse, len(executions))
	for i := range executions {
		responses[i] = ToExecutionResponse(&executions[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Get returns one execution, refusing cross-tenant reads
func (s *ExecutionService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ExecutionResponse, error) {
	execution, err := s.executionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if execution.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	response := ToExecutionResponse(execution)
	return &response, nil
}
