package service

import (
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "OrdemServico"

// Event type constants
const (
	EventTypeOrderCreated           = "OrderCreated"
	EventTypeOrderEnteredProduction = "OrderEnteredProduction"
	EventTypeOrderAwaitingPayment   = "OrderAwaitingPayment"
	EventTypeOrderFinalized         = "OrderFinalized"
	EventTypeOrderCancelled         = "OrderCancelled"
)

// OrderEvent carries the fields shared by every order lifecycle event
type OrderEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	ClientID    uuid.UUID       `json:"client_id"`
	ClientName  string          `json:"client_name"`
	Status      OrderStatus     `json:"status"`
	Total       decimal.Decimal `json:"total"`
}

func newOrderEvent(eventType string, order *Order) OrderEvent {
	return OrderEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.Number,
		ClientID:        order.ClientID,
		ClientName:      order.ClientName,
		Status:          order.Status,
		Total:           order.Total,
	}
}

// OrderCreatedEvent is raised when a new order is created
type OrderCreatedEvent struct{ OrderEvent }

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{newOrderEvent(EventTypeOrderCreated, order)}
}

// OrderEnteredProductionEvent is raised when an order moves to em_producao
type OrderEnteredProductionEvent struct{ OrderEvent }

// NewOrderEnteredProductionEvent creates a new OrderEnteredProductionEvent
func NewOrderEnteredProductionEvent(order *Order) *OrderEnteredProductionEvent {
	return &OrderEnteredProductionEvent{newOrderEvent(EventTypeOrderEnteredProduction, order)}
}

// OrderAwaitingPaymentEvent is raised when an order moves to
// aguardando_pagamento and a PIX charge should be offered
type OrderAwaitingPaymentEvent struct{ OrderEvent }

// NewOrderAwaitingPaymentEvent creates a new OrderAwaitingPaymentEvent
func NewOrderAwaitingPaymentEvent(order *Order) *OrderAwaitingPaymentEvent {
	return &OrderAwaitingPaymentEvent{newOrderEvent(EventTypeOrderAwaitingPayment, order)}
}

// OrderFinalizedEvent is raised when an order is finalized
type OrderFinalizedEvent struct{ OrderEvent }

// NewOrderFinalizedEvent creates a new OrderFinalizedEvent
func NewOrderFinalizedEvent(order *Order) *OrderFinalizedEvent {
	return &OrderFinalizedEvent{newOrderEvent(EventTypeOrderFinalized, order)}
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct{ OrderEvent }

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{newOrderEvent(EventTypeOrderCancelled, order)}
}
