package service

import (
	"context"
	"errors"
	"time"

	"github.com/osworks/backend/internal/domain/catalog"
	"github.com/osworks/backend/internal/domain/partner"
	"github.com/osworks/backend/internal/domain/service"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/osworks/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService manages service orders and publishes their lifecycle
// events, which feed ledger generation and the automation pipeline.
type OrderService struct {
	orderRepo      service.OrderRepository
	clientRepo     partner.ClientRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo service.OrderRepository,
	clientRepo partner.ClientRepository,
	productRepo catalog.ProductRepository,
	eventPublisher shared.EventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		clientRepo:     clientRepo,
		productRepo:    productRepo,
		eventPublisher: eventPublisher,
	}
}

// Create opens a new order with a fresh sequential number
func (s *OrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CLIENT", "Client not found")
		}
		return nil, err
	}

	number, err := s.orderRepo.NextNumber(ctx, tenantID, time.Now().Year())
	if err != nil {
		return nil, err
	}

	order, err := service.NewOrder(tenantID, client.ID, client.Name, number, req.Description)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PRODUCT", "Product not found")
			}
			return nil, err
		}
		description := item.Description
		if description == "" {
			description = product.Name
		}
		unitPrice := product.Price
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		if err := order.AddItem(product.ID, description, item.Quantity, unitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Get returns one order with items and history
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List returns a page of orders
func (s *OrderService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ChangeStatus moves an order through the state machine. Invalid
// transitions surface as domain errors and leave no trace.
func (s *OrderService) ChangeStatus(ctx context.Context, id uuid.UUID, req ChangeStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.ChangeStatus(service.OrderStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// publishEvents flushes the order's pending domain events after a
// successful save. Event handling is best-effort; a failed handler
// never rolls back the saved order.
func (s *OrderService) publishEvents(ctx context.Context, order *service.Order) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			logger.L(ctx).Warn("failed to publish order event",
				zap.String("event_type", event.EventType()),
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
		}
	}
	order.ClearDomainEvents()
}
