package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/irs990"
)

// Ensure LoggingCache implements irs990.Cache.
var _ irs990.Cache = (*LoggingCache)(nil)

// LoggingCache wraps a Cache with debug logging.
type LoggingCache struct {
	next   irs990.Cache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next irs990.Cache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// GetOrFetch delegates to the wrapped cache and logs the operation.
// A read is reported as a hit when the fetch function never ran.
func (c *LoggingCache) GetOrFetch(ctx context.Context, key string, fn irs990.FetchFunc) (data []byte, err error) {
	fetched := false
	wrapped := func(ctx context.Context) ([]byte, error) {
		fetched = true
		return fn(ctx)
	}
	defer func(begin time.Time) {
		c.logger.Info("cache read",
			"key", key,
			"hit", !fetched,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.GetOrFetch(ctx, key, wrapped)
}
