package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/domain/automation"
)

// RuleModel is the persistence model for the automation Rule entity.
// One row per (tenant, event); params are stored as a JSON object.
type RuleModel struct {
	TenantModel
	Event   string `gorm:"type:varchar(50);not null;uniqueIndex:idx_rule_tenant_event,priority:2"`
	Enabled bool   `gorm:"not null;default:false;index"`
	Params  string `gorm:"type:jsonb;not null;default:'{}'"`
}

// TableName returns the table name for GORM
func (RuleModel) TableName() string {
	return "automacao_regras"
}

// ToDomain converts the persistence model to a domain Rule
func (m *RuleModel) ToDomain() (*automation.Rule, error) {
	params := make(map[string]int)
	if m.Params != "" {
		if err := json.Unmarshal([]byte(m.Params), &params); err != nil {
			return nil, err
		}
	}
	return &automation.Rule{
		TenantEntity: m.ToDomainTenantEntity(),
		Event:        m.Event,
		Enabled:      m.Enabled,
		Params:       params,
	}, nil
}

// FromDomain populates the persistence model from a domain Rule
func (m *RuleModel) FromDomain(r *automation.Rule) error {
	m.FromDomainTenantEntity(r.TenantEntity)
	m.Event = r.Event
	m.Enabled = r.Enabled
	params, err := json.Marshal(r.Params)
	if err != nil {
		return err
	}
	m.Params = string(params)
	return nil
}

// ExecutionModel is the persistence model for the Execution entity
type ExecutionModel struct {
	TenantModel
	Event       string    `gorm:"type:varchar(50);not null;index"`
	Action      string    `gorm:"type:varchar(50);not null"`
	EntityType  string    `gorm:"type:varchar(50);not null"`
	EntityID    uuid.UUID `gorm:"type:uuid;not null;index"`
	PayloadKind string    `gorm:"type:varchar(20);not null"`
	PayloadData []byte    `gorm:"type:jsonb"`
	Status      string    `gorm:"type:varchar(20);not null;index"`
	Message     string    `gorm:"type:text"`
	StartedAt   *time.Time
	FinishedAt  *time.Time
}

// TableName returns the table name for GORM
func (ExecutionModel) TableName() string {
	return "automacao_execucoes"
}

// ToDomain converts the persistence model to a domain Execution
func (m *ExecutionModel) ToDomain() *automation.Execution {
	return &automation.Execution{
		TenantEntity: m.ToDomainTenantEntity(),
		Event:        m.Event,
		Action:       m.Action,
		EntityType:   m.EntityType,
		EntityID:     m.EntityID,
		PayloadKind:  m.PayloadKind,
		PayloadData:  m.PayloadData,
		Status:       automation.ExecutionStatus(m.Status),
		Message:      m.Message,
		StartedAt:    m.StartedAt,
		FinishedAt:   m.FinishedAt,
	}
}

// FromDomain populates the persistence model from a domain Execution
func (m *ExecutionModel) FromDomain(e *automation.Execution) {
	m.FromDomainTenantEntity(e.TenantEntity)
	m.Event = e.Event
	m.Action = e.Action
	m.EntityType = e.EntityType
	m.EntityID = e.EntityID
	m.PayloadKind = e.PayloadKind
	m.PayloadData = e.PayloadData
	m.Status = string(e.Status)
	m.Message = e.Message
	m.StartedAt = e.StartedAt
	m.FinishedAt = e.FinishedAt
}
