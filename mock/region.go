package mock

import (
	"context"

	"github.com/fwojciec/irs990"
)

var _ irs990.RegionLister = (*RegionLister)(nil)

// RegionLister is a mock implementation of irs990.RegionLister.
type RegionLister struct {
	ListRegionsFn func(ctx context.Context) ([]irs990.Region, error)
}

func (l *RegionLister) ListRegions(ctx context.Context) ([]irs990.Region, error) {
	return l.ListRegionsFn(ctx)
}
