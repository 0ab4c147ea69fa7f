package mock

import (
	"context"

	"github.com/fwojciec/irs990"
)

var _ irs990.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of irs990.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) ([]byte, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.FetchFn(ctx, url)
}
