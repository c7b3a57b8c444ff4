package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
)

const listKeyPrefix = "list:"

// CacheRepository abstracts persistence for cached list pages.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService caches list responses keyed by resource and query, recording hit/miss metrics.
// Cache failures are logged and treated as misses so the remote API stays the source of truth.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// ListKey derives the cache key of one list request. url.Values encodes keys sorted.
func ListKey(resource string, query url.Values) string {
	return listKeyPrefix + resource + ":" + query.Encode()
}

// Get reports whether key was found and decoded into dest.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	return err == nil
}

// Set stores value under key using the default TTL.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) {
	if !s.Enabled() {
		return
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, s.defaultTTL)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateLists drops every cached list page. Lists embed joined data from other resources
// (a program row carries its department name), so a mutation anywhere invalidates all of them.
func (s *CacheService) InvalidateLists(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	if err := s.repo.DeleteByPattern(ctx, listKeyPrefix+"*"); err != nil {
		s.logger.Warn("cache invalidate failed", zap.Error(err))
	}
}

// InvalidateResource drops the cached list pages of one resource.
func (s *CacheService) InvalidateResource(ctx context.Context, resource string) {
	if !s.Enabled() {
		return
	}
	if err := s.repo.DeleteByPattern(ctx, listKeyPrefix+resource+":*"); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("resource", resource), zap.Error(err))
	}
}
