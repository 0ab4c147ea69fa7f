package mock

import (
	"context"

	"github.com/fwojciec/irs990"
)

var _ irs990.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of irs990.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}
