package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
	"github.com/zatekoja/fitai/backend/internal/domain/providers"
	"github.com/zatekoja/fitai/backend/internal/domain/repositories"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/observability"
)

const planCachePrefix = "plan"

// CachedPlanAdapter wraps a PlanRepository with a read-through cache of whole plans
type CachedPlanAdapter struct {
	adapter repositories.PlanRepository
	cache   providers.CacheProvider
	ttl     time.Duration
	metrics *observability.Metrics
}

// NewCachedPlanAdapter creates a new cached plan adapter
func NewCachedPlanAdapter(adapter repositories.PlanRepository, cache providers.CacheProvider, ttl time.Duration, metrics *observability.Metrics) repositories.PlanRepository {
	return &CachedPlanAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
	}
}

func planCacheKey(id string) string {
	return fmt.Sprintf("%s:%s", planCachePrefix, id)
}

// CreateWithChildren stores the plan. New plans are cached on first read.
func (a *CachedPlanAdapter) CreateWithChildren(ctx context.Context, plan *entities.PersistedPlan) error {
	return a.adapter.CreateWithChildren(ctx, plan)
}

// GetByID retrieves a plan, from cache when present
func (a *CachedPlanAdapter) GetByID(ctx context.Context, id string) (*entities.PersistedPlan, error) {
	cacheKey := planCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var plan entities.PersistedPlan
		if err := json.Unmarshal(cached, &plan); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, planCachePrefix)
			return &plan, nil
		}
		log.Warn().Err(err).Str("plan_id", id).Msg("failed to unmarshal cached plan")
	}
	observability.RecordCacheMiss(ctx, a.metrics, planCachePrefix)

	plan, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// fill asynchronously so the response is not blocked on Redis
	data, err := json.Marshal(plan)
	if err == nil {
		go func() {
			if err := a.cache.Set(context.Background(), cacheKey, data, int(a.ttl.Seconds())); err != nil {
				log.Warn().Err(err).Str("plan_id", id).Msg("failed to cache plan")
			}
		}()
	}

	return plan, nil
}

// Delete deletes the plan and drops its cache entry
func (a *CachedPlanAdapter) Delete(ctx context.Context, id string) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidate(ctx, id)
	return nil
}

// SetActive updates the flag and drops the cache entry
func (a *CachedPlanAdapter) SetActive(ctx context.Context, id string, active bool) error {
	if err := a.adapter.SetActive(ctx, id, active); err != nil {
		return err
	}
	a.invalidate(ctx, id)
	return nil
}

func (a *CachedPlanAdapter) invalidate(ctx context.Context, id string) {
	if err := a.cache.Delete(ctx, planCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("plan_id", id).Msg("failed to invalidate cached plan")
	}
}
