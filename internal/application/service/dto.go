// Package service contains application services for ordens de serviço.
package service

import (
	"time"

	"github.com/osworks/backend/internal/domain/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one line item in a create request
type OrderItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Description string          `json:"description" binding:"max=300"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest creates a service order
type CreateOrderRequest struct {
	ClientID    uuid.UUID          `json:"client_id" binding:"required"`
	Description string             `json:"description" binding:"max=1000"`
	Items       []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ChangeStatusRequest moves an order through the state machine
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderItemResponse represents a line item in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// StatusHistoryResponse represents one status movement
type StatusHistoryResponse struct {
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrderResponse represents a service order in API responses
type OrderResponse struct {
	ID          uuid.UUID               `json:"id"`
	Number      string                  `json:"number"`
	ClientID    uuid.UUID               `json:"client_id"`
	ClientName  string                  `json:"client_name"`
	Description string                  `json:"description"`
	Status      string                  `json:"status"`
	Total       decimal.Decimal         `json:"total"`
	Items       []OrderItemResponse     `json:"items"`
	History     []StatusHistoryResponse `json:"history,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(order *service.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	history := make([]StatusHistoryResponse, len(order.History))
	for i, h := range order.History {
		history[i] = StatusHistoryResponse{
			FromStatus: h.FromStatus.String(),
			ToStatus:   h.ToStatus.String(),
			CreatedAt:  h.CreatedAt,
		}
	}
	return OrderResponse{
		ID:          order.ID,
		Number:      order.Number,
		ClientID:    order.ClientID,
		ClientName:  order.ClientName,
		Description: order.Description,
		Status:      order.Status.String(),
		Total:       order.Total,
		Items:       items,
		History:     history,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}
