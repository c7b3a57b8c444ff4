package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
)

type fakeCacheRepo struct {
	mu      sync.Mutex
	values  map[string][]byte
	getErr  error
	deleted []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: map[string][]byte{}}
}

func (f *fakeCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return f.getErr
	}
	raw, ok := f.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = raw
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range f.values {
		if strings.HasPrefix(k, prefix) {
			delete(f.values, k)
		}
	}
	return nil
}

func TestCacheServiceRoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCacheRepo()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, nil, true)

	key := ListKey("departments", url.Values{"offset": {"0"}, "limit": {"10"}})
	assert.Equal(t, "list:departments:limit=10&offset=0", key)

	var out []string
	assert.False(t, svc.Get(ctx, key, &out))
	svc.Set(ctx, key, []string{"IT"})
	require.True(t, svc.Get(ctx, key, &out))
	assert.Equal(t, []string{"IT"}, out)

	svc.InvalidateLists(ctx)
	assert.False(t, svc.Get(ctx, key, &out))
	assert.Equal(t, []string{"list:*"}, repo.deleted)

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(2), snap.CacheMisses)
}

func TestCacheServiceDisabledAndFailures(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCacheRepo()

	disabled := NewCacheService(repo, nil, 0, nil, false)
	disabled.Set(ctx, "k", 1)
	assert.Empty(t, repo.values)

	repo.getErr = errors.New("connection refused")
	broken := NewCacheService(repo, nil, 0, nil, true)
	var out int
	assert.False(t, broken.Get(ctx, "k", &out))
}
