package mock

import (
	"context"

	"github.com/fwojciec/irs990"
)

var _ irs990.AnnualIndexService = (*AnnualIndexService)(nil)

// AnnualIndexService is a mock implementation of irs990.AnnualIndexService.
type AnnualIndexService struct {
	LoadAnnualIndexFn func(ctx context.Context, year irs990.Year) (*irs990.AnnualIndex, error)
}

func (s *AnnualIndexService) LoadAnnualIndex(ctx context.Context, year irs990.Year) (*irs990.AnnualIndex, error) {
	return s.LoadAnnualIndexFn(ctx, year)
}

var _ irs990.BMFIndexService = (*BMFIndexService)(nil)

// BMFIndexService is a mock implementation of irs990.BMFIndexService.
type BMFIndexService struct {
	LoadBMFIndexFn func(ctx context.Context, region irs990.Region) (*irs990.BMFIndex, error)
}

func (s *BMFIndexService) LoadBMFIndex(ctx context.Context, region irs990.Region) (*irs990.BMFIndex, error) {
	return s.LoadBMFIndexFn(ctx, region)
}
