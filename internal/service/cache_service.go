package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
)

// CacheStore is the backing store used by CacheService.
type CacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService wraps the cache store with an enabled flag, a default TTL
// and metrics hooks. When disabled every lookup reports a miss so callers
// fall through to the database.
type CacheService struct {
	store      CacheStore
	metrics    *MetricsService
	logger     *zap.Logger
	enabled    bool
	defaultTTL time.Duration
}

func NewCacheService(store CacheStore, metrics *MetricsService, logger *zap.Logger, enabled bool, defaultTTL time.Duration) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &CacheService{
		store:      store,
		metrics:    metrics,
		logger:     logger,
		enabled:    enabled,
		defaultTTL: defaultTTL,
	}
}

// Enabled reports whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.store != nil
}

// Get fetches a cached value into dest. Returns ErrCacheMiss when
// the key is absent or caching is disabled.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if !s.Enabled() {
		return appErrors.ErrCacheMiss
	}

	start := time.Now()
	err := s.store.Get(ctx, key, dest)
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.RecordCacheOperation(false, elapsed)
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return appErrors.ErrCacheMiss
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return appErrors.ErrCacheMiss
	}

	s.metrics.RecordCacheOperation(true, elapsed)
	return nil
}

// Set stores a value under key. A non-positive ttl uses the default.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !s.Enabled() {
		return
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	start := time.Now()
	if err := s.store.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return
	}
	s.metrics.ObserveCacheWrite(time.Since(start))
}

// InvalidatePattern removes every key matching a glob pattern.
func (s *CacheService) InvalidatePattern(ctx context.Context, pattern string) {
	if !s.Enabled() {
		return
	}
	if err := s.store.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
