package redis

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/DPR-Intelligence/internal/domain/scheme"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
)

const schemeKeyPrefix = "schemes:"

// CachedSchemeRepository is a cache-aside decorator over a scheme.Repository.
// Upsert writes through and drops every cached scheme key.
type CachedSchemeRepository struct {
	inner  scheme.Repository
	cache  Cache
	ttl    time.Duration
	logger logging.Logger
}

var _ scheme.Repository = (*CachedSchemeRepository)(nil)

func NewCachedSchemeRepository(inner scheme.Repository, cache Cache, ttl time.Duration, log logging.Logger) *CachedSchemeRepository {
	return &CachedSchemeRepository{inner: inner, cache: cache, ttl: ttl, logger: logging.OrNop(log)}
}

func (r *CachedSchemeRepository) ListAll(ctx context.Context) ([]scheme.GovernmentScheme, error) {
	var out []scheme.GovernmentScheme
	err := r.cache.GetOrSet(ctx, schemeKeyPrefix+"all", &out, r.ttl, func(ctx context.Context) (any, error) {
		return r.inner.ListAll(ctx)
	})
	if err == ErrCacheMiss {
		return nil, nil
	}
	return out, err
}

func (r *CachedSchemeRepository) ListActive(ctx context.Context) ([]scheme.GovernmentScheme, error) {
	var out []scheme.GovernmentScheme
	err := r.cache.GetOrSet(ctx, schemeKeyPrefix+"active", &out, r.ttl, func(ctx context.Context) (any, error) {
		return r.inner.ListActive(ctx)
	})
	if err == ErrCacheMiss {
		return nil, nil
	}
	return out, err
}

// GetByCode caches hits only. A not-found error reaches the caller uncached.
func (r *CachedSchemeRepository) GetByCode(ctx context.Context, code string) (*scheme.GovernmentScheme, error) {
	var out scheme.GovernmentScheme
	key := schemeKeyPrefix + "code:" + strings.ToUpper(strings.TrimSpace(code))
	err := r.cache.GetOrSet(ctx, key, &out, r.ttl, func(ctx context.Context) (any, error) {
		return r.inner.GetByCode(ctx, code)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CachedSchemeRepository) Upsert(ctx context.Context, s *scheme.GovernmentScheme) error {
	if err := r.inner.Upsert(ctx, s); err != nil {
		return err
	}
	if n, err := r.cache.DeleteByPrefix(ctx, schemeKeyPrefix); err != nil {
		r.logger.Warn("scheme cache invalidation failed", logging.Err(err))
	} else {
		r.logger.Debug("scheme cache invalidated", logging.Int64("keys", n))
	}
	return nil
}

//Personal.AI order the ending
