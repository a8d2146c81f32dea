package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/domain/service"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	TenantModel
	Number      string             `gorm:"type:varchar(30);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	ClientID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	ClientName  string             `gorm:"type:varchar(200);not null"`
	Description string             `gorm:"type:text"`
	Status      string             `gorm:"type:varchar(30);not null;index"`
	Total       decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	Items       []OrderItemModel   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History     []OrderStatusModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "ordens_servico"
}

// OrderItemModel is the persistence model for an order line item
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;index"`
	Description string          `gorm:"type:varchar(300)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "ordem_itens"
}

// OrderStatusModel is the persistence model for one status movement
type OrderStatusModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus string    `gorm:"type:varchar(30)"`
	ToStatus   string    `gorm:"type:varchar(30);not null"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (OrderStatusModel) TableName() string {
	return "ordem_status_historico"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *service.Order {
	order := &service.Order{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Number:              m.Number,
		ClientID:            m.ClientID,
		ClientName:          m.ClientName,
		Description:         m.Description,
		Status:              service.OrderStatus(m.Status),
		Total:               m.Total,
	}
	for _, item := range m.Items {
		order.Items = append(order.Items, service.OrderItem{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}
	for _, h := range m.History {
		order.History = append(order.History, service.StatusHistory{
			ID:         h.ID,
			TenantID:   h.TenantID,
			OrderID:    h.OrderID,
			FromStatus: service.OrderStatus(h.FromStatus),
			ToStatus:   service.OrderStatus(h.ToStatus),
			CreatedAt:  h.CreatedAt,
		})
	}
	return order
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *service.Order) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.Number = o.Number
	m.ClientID = o.ClientID
	m.ClientName = o.ClientName
	m.Description = o.Description
	m.Status = o.Status.String()
	m.Total = o.Total

	m.Items = m.Items[:0]
	for _, item := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:          item.ID,
			TenantID:    o.TenantID,
			OrderID:     o.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}
	m.History = m.History[:0]
	for _, h := range o.History {
		m.History = append(m.History, OrderStatusModel{
			ID:         h.ID,
			TenantID:   h.TenantID,
			OrderID:    h.OrderID,
			FromStatus: h.FromStatus.String(),
			ToStatus:   h.ToStatus.String(),
			CreatedAt:  h.CreatedAt,
		})
	}
}
