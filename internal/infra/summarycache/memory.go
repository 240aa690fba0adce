package summarycache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yanqian/content-digest/internal/domain/pipeline"
)

const (
	defaultTTL      = time.Hour
	cleanupInterval = 10 * time.Minute
)

// MemoryCache keeps summaries in process memory for single-instance deployments.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache constructs a cache whose entries expire after defaultTTL
// unless Set is given its own ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &MemoryCache{cache: gocache.New(ttl, cleanupInterval)}
}

// Get implements pipeline.ResultCache.
func (c *MemoryCache) Get(_ context.Context, key string) (pipeline.Result, bool, error) {
	val, found := c.cache.Get(key)
	if !found {
		return pipeline.Result{}, false, nil
	}
	result, ok := val.(pipeline.Result)
	if !ok {
		c.cache.Delete(key)
		return pipeline.Result{}, false, nil
	}
	return clone(result), true, nil
}

// Set implements pipeline.ResultCache. A zero ttl uses the cache default.
func (c *MemoryCache) Set(_ context.Context, key string, result pipeline.Result, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, clone(result), ttl)
	return nil
}

// Len reports the number of live entries.
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}

func clone(r pipeline.Result) pipeline.Result {
	if r.TokenUsage != nil {
		usage := *r.TokenUsage
		r.TokenUsage = &usage
	}
	return r
}

var _ pipeline.ResultCache = (*MemoryCache)(nil)
