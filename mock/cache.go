package mock

import (
	"context"

	"github.com/fwojciec/irs990"
)

var _ irs990.Cache = (*Cache)(nil)

// Cache is a mock implementation of irs990.Cache.
type Cache struct {
	GetOrFetchFn func(ctx context.Context, key string, fn irs990.FetchFunc) ([]byte, error)
}

func (c *Cache) GetOrFetch(ctx context.Context, key string, fn irs990.FetchFunc) ([]byte, error) {
	return c.GetOrFetchFn(ctx, key, fn)
}
