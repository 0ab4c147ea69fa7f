package mock

import (
	"context"

	"github.com/fwojciec/irs990"
)

var _ irs990.Asker = (*Asker)(nil)

// Asker is a mock implementation of irs990.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	return a.AskFn(ctx, question)
}
