package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a service order
type OrderStatus string

const (
	OrderStatusAberta             OrderStatus = "aberta"
	OrderStatusEmProducao         OrderStatus = "em_producao"
	OrderStatusAguardandoPagmento OrderStatus = "aguardando_pagamento"
	OrderStatusFinalizada         OrderStatus = "finalizada"
	OrderStatusCancelada          OrderStatus = "cancelada"
)

// IsValid checks if the status is a known OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusAberta, OrderStatusEmProducao, OrderStatusAguardandoPagmento,
		OrderStatusFinalizada, OrderStatusCancelada:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusAberta:
		return target == OrderStatusEmProducao || target == OrderStatusAguardandoPagmento ||
			target == OrderStatusCancelada
	case OrderStatusEmProducao:
		return target == OrderStatusAguardandoPagmento || target == OrderStatusFinalizada ||
			target == OrderStatusCancelada
	case OrderStatusAguardandoPagmento:
		return target == OrderStatusFinalizada || target == OrderStatusCancelada
	case OrderStatusFinalizada, OrderStatusCancelada:
		return false
	}
	return false
}

// OpenStatuses is the set of statuses in which an order is considered
// still in progress for stall detection. It includes legacy status names
// found on rows imported from older installations.
var OpenStatuses = []string{
	"aberta", "em_producao", "aguardando_pagamento",
	"criada", "em_andamento", "producao", "pendente", "pendencia", "faturado",
}

// OrderItem is a line item in a service order
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// NewOrderItem creates a new order item
func NewOrderItem(orderID, productID uuid.UUID, description string, quantity, unitPrice decimal.Decimal) (*OrderItem, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice).Round(2),
	}, nil
}

// Order is a tenant-owned service order (ordem de serviço). Status
// changes go through the state machine and always leave a history row.
type Order struct {
	shared.TenantAggregateRoot
	Number      string
	ClientID    uuid.UUID
	ClientName  string
	Description string
	Status      OrderStatus
	Items       []OrderItem
	Total       decimal.Decimal
	History     []StatusHistory
}

// NewOrder creates a new order in the aberta status and raises
// OrderCreatedEvent.
func NewOrder(tenantID, clientID uuid.UUID, clientName, number, description string) (*Order, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client is required")
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order number cannot be empty")
	}
	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		ClientID:            clientID,
		ClientName:          clientName,
		Description:         strings.TrimSpace(description),
		Status:              OrderStatusAberta,
		Total:               decimal.Zero,
	}
	order.History = append(order.History, newStatusHistory(order, "", OrderStatusAberta))
	order.AddDomainEvent(NewOrderCreatedEvent(order))
	return order, nil
}

// AddItem appends a line item and recalculates the total
func (o *Order) AddItem(productID uuid.UUID, description string, quantity, unitPrice decimal.Decimal) error {
	if o.Status != OrderStatusAberta {
		return shared.NewDomainError("ORDER_NOT_OPEN", "Items can only be added while the order is open")
	}
	item, err := NewOrderItem(o.ID, productID, description, quantity, unitPrice)
	if err != nil {
		return err
	}
	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	return nil
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.Total = total
}

// ChangeStatus moves the order through the state machine, records a
// history row and raises the matching domain event.
func (o *Order) ChangeStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}
	from := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.History = append(o.History, newStatusHistory(o, from, target))

	switch target {
	case OrderStatusEmProducao:
		o.AddDomainEvent(NewOrderEnteredProductionEvent(o))
	case OrderStatusAguardandoPagmento:
		o.AddDomainEvent(NewOrderAwaitingPaymentEvent(o))
	case OrderStatusFinalizada:
		o.AddDomainEvent(NewOrderFinalizedEvent(o))
	case OrderStatusCancelada:
		o.AddDomainEvent(NewOrderCancelledEvent(o))
	}
	return nil
}

// LastMovementAt is the reference time for stall detection: the newest
// status-history timestamp, or the order's own updated_at when that is
// more recent.
func (o *Order) LastMovementAt() time.Time {
	last := o.UpdatedAt
	for _, h := range o.History {
		if h.CreatedAt.After(last) {
			last = h.CreatedAt
		}
	}
	return last
}
