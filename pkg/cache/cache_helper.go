package cache

import (
	"context"
	"errors"
	"log"
	"time"
)

type CacheHelper[T any] struct {
	Cache *Cache
}

func NewCacheHelper[T any](cache *Cache) *CacheHelper[T] {
	return &CacheHelper[T]{Cache: cache}
}

// Handle fills out from the cache or from fn, storing what fn produced. A nil
// helper or cache always calls fn. Cache failures never fail the call.
func (c *CacheHelper[T]) Handle(ctx context.Context, key string, out *T, fn func() T, expiration time.Duration) (hit bool) {
	if c == nil || c.Cache == nil {
		*out = fn()
		return false
	}
	err := c.Cache.Get(ctx, key, out)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrMiss) {
		log.Printf("Cache get %s failed: %v", key, err)
	}
	*out = fn()
	if err = c.Cache.Set(ctx, key, *out, expiration); err != nil {
		log.Printf("Cache set %s failed: %v", key, err)
	}
	return false
}
