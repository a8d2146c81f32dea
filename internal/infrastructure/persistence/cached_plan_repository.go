package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/domain/billing"
	"github.com/osworks/backend/internal/infrastructure/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	planCacheKeyPrefix = "billing:plan:"
	planCacheTTL       = 5 * time.Minute
)

type cachedPlan struct {
	ID        uuid.UUID        `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Name      string           `json:"name"`
	Limits    map[string]int64 `json:"limits"`
	Features  map[string]bool  `json:"features"`
}

// CachedPlanRepository decorates a PlanRepository with a short-lived
// redis cache. Plans change rarely but are read on every gated request,
// so the gate middleware should not hit postgres each time. Cache
// faults fall through to the inner repository.
type CachedPlanRepository struct {
	inner  billing.PlanRepository
	client *redis.Client
}

// NewCachedPlanRepository creates a redis-cached plan repository
func NewCachedPlanRepository(inner billing.PlanRepository, client *redis.Client) *CachedPlanRepository {
	return &CachedPlanRepository{inner: inner, client: client}
}

// FindByID finds a plan by ID, serving from cache when possible
func (r *CachedPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Plan, error) {
	key := planCacheKeyPrefix + id.String()

	if data, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var cached cachedPlan
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached.toDomain(), nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logger.L(ctx).Warn("plan cache read failed", zap.Error(err))
	}

	plan, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, plan)
	return plan, nil
}

// FindByName finds a plan by name. Name lookups are rare (onboarding
// only) and bypass the cache.
func (r *CachedPlanRepository) FindByName(ctx context.Context, name string) (*billing.Plan, error) {
	return r.inner.FindByName(ctx, name)
}

// Save persists a plan and invalidates its cache entry
func (r *CachedPlanRepository) Save(ctx context.Context, plan *billing.Plan) error {
	if err := r.inner.Save(ctx, plan); err != nil {
		return err
	}
	if err := r.client.Del(ctx, planCacheKeyPrefix+plan.ID.String()).Err(); err != nil {
		logger.L(ctx).Warn("plan cache invalidation failed", zap.Error(err))
	}
	return nil
}

func (r *CachedPlanRepository) store(ctx context.Context, key string, plan *billing.Plan) {
	data, err := json.Marshal(cachedPlan{
		ID:        plan.ID,
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
		Name:      plan.Name,
		Limits:    plan.Limits,
		Features:  plan.Features,
	})
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, data, planCacheTTL).Err(); err != nil {
		logger.L(ctx).Warn("plan cache write failed", zap.Error(err))
	}
}

func (c *cachedPlan) toDomain() *billing.Plan {
	plan := &billing.Plan{
		Name:     c.Name,
		Limits:   c.Limits,
		Features: c.Features,
	}
	plan.ID = c.ID
	plan.CreatedAt = c.CreatedAt
	plan.UpdatedAt = c.UpdatedAt
	if plan.Limits == nil {
		plan.Limits = make(map[string]int64)
	}
	if plan.Features == nil {
		plan.Features = make(map[string]bool)
	}
	return plan
}
