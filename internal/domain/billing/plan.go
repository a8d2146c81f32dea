package billing

import (
	"context"
	"strings"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Well-known limit keys
const (
	LimitMaxUsuarios = "max_usuarios"
	LimitMaxOSMes    = "max_os_mes"
)

// Well-known feature keys
const (
	FeatureWhatsApp   = "whatsapp"
	FeaturePix        = "pix"
	FeatureAutomacoes = "automacoes"
)

// Plan defines the ceilings and feature flags a subscription grants.
// Plans are global records shared by every tenant.
type Plan struct {
	shared.BaseEntity
	Name     string
	Limits   map[string]int64
	Features map[string]bool
}

// NewPlan creates a new plan
func NewPlan(name string, limits map[string]int64, features map[string]bool) (*Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Plan name cannot be empty")
	}
	if limits == nil {
		limits = make(map[string]int64)
	}
	if features == nil {
		features = make(map[string]bool)
	}
	return &Plan{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Limits:     limits,
		Features:   features,
	}, nil
}

// Limit returns the numeric ceiling for a key. Zero or negative values
// mean unlimited, as does an absent key.
func (p *Plan) Limit(key string) int64 {
	return p.Limits[key]
}

// IsUnlimited reports whether a limit key imposes no ceiling
func (p *Plan) IsUnlimited(key string) bool {
	return p.Limits[key] <= 0
}

// HasFeature reports whether a boolean feature flag is enabled
func (p *Plan) HasFeature(key string) bool {
	return p.Features[key]
}

// PlanRepository persists plans
type PlanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	FindByName(ctx context.Context, name string) (*Plan, error)
	Save(ctx context.Context, plan *Plan) error
}
