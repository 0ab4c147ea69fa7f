package index

import (
	"context"
	"fmt"

	"github.com/fwojciec/irs990"
)

var _ irs990.AnnualIndexService = (*AnnualService)(nil)

// AnnualService loads yearly e-file indices through a cache.
type AnnualService struct {
	Cache   irs990.Cache
	Fetcher irs990.Fetcher

	// BaseURL overrides the public endpoint, mainly for tests.
	BaseURL string
}

// NewAnnualService returns a service fetching through cache.
func NewAnnualService(cache irs990.Cache, fetcher irs990.Fetcher) *AnnualService {
	return &AnnualService{Cache: cache, Fetcher: fetcher}
}

// LoadAnnualIndex retrieves and parses the index for a year. The year is
// validated before any network activity.
func (s *AnnualService) LoadAnnualIndex(ctx context.Context, year irs990.Year) (*irs990.AnnualIndex, error) {
	if err := year.Validate(); err != nil {
		return nil, err
	}

	base := s.BaseURL
	if base == "" {
		base = irs990.EfileBaseURL
	}
	url := irs990.AnnualIndexURL(base, year)
	key := fmt.Sprintf("annual-%d", int(year))

	data, err := s.Cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.Fetcher.Fetch(ctx, url)
	})
	if err != nil {
		return nil, irs990.Errorf(irs990.ErrorCode(err), "annual index %d: %s", int(year), irs990.ErrorMessage(err))
	}

	return parseAnnual(year, data)
}

func parseAnnual(year irs990.Year, data []byte) (*irs990.AnnualIndex, error) {
	idx := &irs990.AnnualIndex{Year: year}

	skipped, err := rows(decode(data), func(row []string, cols map[string]int) bool {
		rec := irs990.AnnualRecord{
			ReturnID:     field(row, cols, "RETURN_ID"),
			FilingType:   field(row, cols, "FILING_TYPE"),
			EIN:          field(row, cols, "EIN"),
			TaxPeriod:    field(row, cols, "TAX_PERIOD"),
			SubmittedOn:  field(row, cols, "SUB_DATE"),
			TaxpayerName: field(row, cols, "TAXPAYER_NAME"),
			ReturnType:   field(row, cols, "RETURN_TYPE"),
			DLN:          field(row, cols, "DLN"),
			ObjectID:     field(row, cols, "OBJECT_ID"),
		}
		if rec.EIN == "" || rec.ObjectID == "" {
			return false
		}
		idx.Records = append(idx.Records, rec)
		return true
	})
	if err != nil {
		return nil, irs990.Errorf(irs990.EMALFORMED, "annual index %d: %s", int(year), irs990.ErrorMessage(err))
	}

	idx.Skipped = skipped
	return idx, nil
}
