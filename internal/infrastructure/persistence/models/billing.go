package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/domain/billing"
)

// PlanModel is the persistence model for the Plan entity. Plans are
// global rows, exempt from tenant scoping. Limits and features are
// stored as JSON objects.
type PlanModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Limits   string `gorm:"type:jsonb;not null;default:'{}'"`
	Features string `gorm:"type:jsonb;not null;default:'{}'"`
}

// TableName returns the table name for GORM
func (PlanModel) TableName() string {
	return "planos"
}

// ToDomain converts the persistence model to a domain Plan
func (m *PlanModel) ToDomain() (*billing.Plan, error) {
	limits := make(map[string]int64)
	if m.Limits != "" {
		if err := json.Unmarshal([]byte(m.Limits), &limits); err != nil {
			return nil, err
		}
	}
	features := make(map[string]bool)
	if m.Features != "" {
		if err := json.Unmarshal([]byte(m.Features), &features); err != nil {
			return nil, err
		}
	}
	return &billing.Plan{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Limits:     limits,
		Features:   features,
	}, nil
}

// FromDomain populates the persistence model from a domain Plan
func (m *PlanModel) FromDomain(p *billing.Plan) error {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	limits, err := json.Marshal(p.Limits)
	if err != nil {
		return err
	}
	features, err := json.Marshal(p.Features)
	if err != nil {
		return err
	}
	m.Limits = string(limits)
	m.Features = string(features)
	return nil
}

// SubscriptionModel is the persistence model for the Subscription entity
type SubscriptionModel struct {
	TenantModel
	PlanID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status string    `gorm:"type:varchar(20);not null;index"`
	Inicio time.Time `gorm:"not null"`
	Fim    *time.Time
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "assinaturas"
}

// ToDomain converts the persistence model to a domain Subscription
func (m *SubscriptionModel) ToDomain() *billing.Subscription {
	return &billing.Subscription{
		TenantEntity: m.ToDomainTenantEntity(),
		PlanID:       m.PlanID,
		Status:       billing.SubscriptionStatus(m.Status),
		Inicio:       m.Inicio,
		Fim:          m.Fim,
	}
}

// FromDomain populates the persistence model from a domain Subscription
func (m *SubscriptionModel) FromDomain(s *billing.Subscription) {
	m.FromDomainTenantEntity(s.TenantEntity)
	m.PlanID = s.PlanID
	m.Status = string(s.Status)
	m.Inicio = s.Inicio
	m.Fim = s.Fim
}
