package irs990

import "context"

// FetchFunc produces the bytes for a cache key on a miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache provides byte-oriented read-through caching keyed by string.
type Cache interface {
	// GetOrFetch returns the cached bytes for key, invoking fn to produce
	// them when absent. A failed fn leaves the cache unchanged and its
	// error is returned to the caller as-is; cache-layer failures are
	// reported as EINTERNAL.
	GetOrFetch(ctx context.Context, key string, fn FetchFunc) ([]byte, error)
}

// PassthroughCache is the disabled-cache mode. Every call invokes fn;
// nothing is stored.
type PassthroughCache struct{}

var _ Cache = (*PassthroughCache)(nil)

// GetOrFetch implements Cache by delegating straight to fn.
func (*PassthroughCache) GetOrFetch(ctx context.Context, key string, fn FetchFunc) ([]byte, error) {
	return fn(ctx)
}
