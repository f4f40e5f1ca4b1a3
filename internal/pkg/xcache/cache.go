package xcache

import (
	"time"

	cachelib "github.com/eko/gocache/lib/v4/cache"
	gocache_store "github.com/eko/gocache/store/go_cache/v4"
	gocache "github.com/patrickmn/go-cache"
)

// Cache is an alias to the gocache CacheInterface for convenience, exposing
// Get/Set/Delete/Clear without callers importing the gocache modules.
type Cache[T any] interface {
	cachelib.CacheInterface[T]
}

// NewMemory creates a pure in-memory cache using patrickmn/go-cache as the
// backend. Pass an existing *gocache.Cache so you control default expiration
// and cleanup interval.
func NewMemory[T any](client *gocache.Cache, options ...Option) Cache[T] {
	store := gocache_store.NewGoCache(client, options...)
	return cachelib.New[T](store)
}

// NewMemoryWithOptions builds the patrickmn/go-cache client for you from the
// provided default expiration and cleanup interval.
func NewMemoryWithOptions[T any](defaultExpiration, cleanupInterval time.Duration, options ...Option) Cache[T] {
	client := gocache.New(defaultExpiration, cleanupInterval)
	return NewMemory[T](client, options...)
}

// NewFromConfig builds a typed cache from the given Config. An unset or
// disabled config yields a noop cache so callers never need nil checks.
func NewFromConfig[T any](cfg Config) Cache[T] {
	if !cfg.Enabled {
		return NewNoop[T]()
	}

	expiration := defaultIfZero(cfg.Expiration, 5*time.Minute)
	cleanupInterval := defaultIfZero(cfg.CleanupInterval, 10*time.Minute)

	return NewMemoryWithOptions[T](expiration, cleanupInterval, WithExpiration(expiration))
}

func defaultIfZero(d, def time.Duration) time.Duration {
	if d == 0 {
		return def
	}

	return d
}
