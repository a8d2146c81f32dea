package service

import (
	"time"

	"github.com/google/uuid"
)

// StatusHistory records one status movement of an order
type StatusHistory struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	OrderID    uuid.UUID
	FromStatus OrderStatus
	ToStatus   OrderStatus
	CreatedAt  time.Time
}

func newStatusHistory(order *Order, from, to OrderStatus) StatusHistory {
	return StatusHistory{
		ID:         uuid.New(),
		TenantID:   order.TenantID,
		OrderID:    order.ID,
		FromStatus: from,
		ToStatus:   to,
		CreatedAt:  time.Now(),
	}
}
