package automation

import (
	"encoding/json"
	"time"

	"github.com/osworks/backend/internal/domain/automation"
	"github.com/google/uuid"
)

// UpsertRuleRequest enables or reconfigures a tenant's rule for one event
type UpsertRuleRequest struct {
	Event   string         `json:"event" binding:"required"`
	Enabled bool           `json:"enabled"`
	Params  map[string]int `json:"params"`
}

// RuleResponse represents an automation rule in API responses
type RuleResponse struct {
	ID        uuid.UUID      `json:"id"`
	Event     string         `json:"event"`
	Enabled   bool           `json:"enabled"`
	Params    map[string]int `json:"params"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ToRuleResponse converts a domain rule to a response
func ToRuleResponse(rule *automation.Rule) RuleResponse {
	return RuleResponse{
		ID:        rule.ID,
		Event:     rule.Event,
		Enabled:   rule.Enabled,
		Params:    rule.Params,
		UpdatedAt: rule.UpdatedAt,
	}
}

// ExecutionResponse represents an automation execution in API responses
type ExecutionResponse struct {
	ID         uuid.UUID       `json:"id"`
	Event      string          `json:"event"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Status     string          `json:"status"`
	Message    string          `json:"message,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// ToExecutionResponse converts a domain execution to a response
func ToExecutionResponse(execution *automation.Execution) ExecutionResponse {
	return ExecutionResponse{
		ID:         execution.ID,
		Event:      execution.Event,
		Action:     execution.Action,
		EntityType: execution.EntityType,
		EntityID:   execution.EntityID,
		Payload:    json.RawMessage(execution.PayloadData),
		Status:     string(execution.Status),
		Message:    execution.Message,
		CreatedAt:  execution.CreatedAt,
		StartedAt:  execution.StartedAt,
		FinishedAt: execution.FinishedAt,
	}
}
