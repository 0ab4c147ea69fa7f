package mock

import (
	"context"

	"github.com/fwojciec/irs990"
)

var _ irs990.SavedFilingService = (*SavedFilingService)(nil)

// SavedFilingService is a mock implementation of irs990.SavedFilingService.
type SavedFilingService struct {
	CreateSavedFilingFn   func(ctx context.Context, f *irs990.SavedFiling) error
	FindSavedFilingByIDFn func(ctx context.Context, id string) (*irs990.SavedFiling, error)
	FindSavedFilingsFn    func(ctx context.Context, filter irs990.SavedFilingFilter) ([]*irs990.SavedFiling, error)
	DeleteSavedFilingFn   func(ctx context.Context, id string) error
}

func (s *SavedFilingService) CreateSavedFiling(ctx context.Context, f *irs990.SavedFiling) error {
	return s.CreateSavedFilingFn(ctx, f)
}

func (s *SavedFilingService) FindSavedFilingByID(ctx context.Context, id string) (*irs990.SavedFiling, error) {
	return s.FindSavedFilingByIDFn(ctx, id)
}

func (s *SavedFilingService) FindSavedFilings(ctx context.Context, filter irs990.SavedFilingFilter) ([]*irs990.SavedFiling, error) {
	return s.FindSavedFilingsFn(ctx, filter)
}

func (s *SavedFilingService) DeleteSavedFiling(ctx context.Context, id string) error {
	return s.DeleteSavedFilingFn(ctx, id)
}
