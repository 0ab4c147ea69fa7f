package index

import (
	"context"
	"fmt"

	"github.com/fwojciec/irs990"
)

var _ irs990.BMFIndexService = (*BMFService)(nil)

// BMFService loads Business Master File regions through a cache.
type BMFService struct {
	Cache   irs990.Cache
	Fetcher irs990.Fetcher

	// BaseURL overrides the public endpoint, mainly for tests.
	BaseURL string
}

// NewBMFService returns a service fetching through cache.
func NewBMFService(cache irs990.Cache, fetcher irs990.Fetcher) *BMFService {
	return &BMFService{Cache: cache, Fetcher: fetcher}
}

// LoadBMFIndex retrieves and parses the file for a region. The region is
// validated before any network activity.
func (s *BMFService) LoadBMFIndex(ctx context.Context, region irs990.Region) (*irs990.BMFIndex, error) {
	if err := region.Validate(); err != nil {
		return nil, err
	}

	base := s.BaseURL
	if base == "" {
		base = irs990.BMFBaseURL
	}
	url := irs990.BMFIndexURL(base, region)
	key := fmt.Sprintf("bmf-%s", string(region))

	data, err := s.Cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.Fetcher.Fetch(ctx, url)
	})
	if err != nil {
		return nil, irs990.Errorf(irs990.ErrorCode(err), "bmf index %q: %s", string(region), irs990.ErrorMessage(err))
	}

	return parseBMF(region, data)
}

func parseBMF(region irs990.Region, data []byte) (*irs990.BMFIndex, error) {
	idx := &irs990.BMFIndex{Region: region}

	skipped, err := rows(decode(data), func(row []string, cols map[string]int) bool {
		rec := irs990.BMFRecord{
			EIN:              field(row, cols, "EIN"),
			Name:             field(row, cols, "NAME"),
			ICO:              field(row, cols, "ICO"),
			Street:           field(row, cols, "STREET"),
			City:             field(row, cols, "CITY"),
			State:            field(row, cols, "STATE"),
			ZIP:              field(row, cols, "ZIP"),
			Group:            field(row, cols, "GROUP"),
			Subsection:       field(row, cols, "SUBSECTION"),
			Affiliation:      field(row, cols, "AFFILIATION"),
			Classification:   field(row, cols, "CLASSIFICATION"),
			Ruling:           field(row, cols, "RULING"),
			Deductibility:    field(row, cols, "DEDUCTIBILITY"),
			Foundation:       field(row, cols, "FOUNDATION"),
			Activity:         field(row, cols, "ACTIVITY"),
			Organization:     field(row, cols, "ORGANIZATION"),
			Status:           field(row, cols, "STATUS"),
			TaxPeriod:        field(row, cols, "TAX_PERIOD"),
			AssetCode:        field(row, cols, "ASSET_CD"),
			IncomeCode:       field(row, cols, "INCOME_CD"),
			FilingReqCode:    field(row, cols, "FILING_REQ_CD"),
			PFFilingReqCode:  field(row, cols, "PF_FILING_REQ_CD"),
			AccountingPeriod: field(row, cols, "ACCT_PD"),
			AssetAmount:      field(row, cols, "ASSET_AMT"),
			IncomeAmount:     field(row, cols, "INCOME_AMT"),
			RevenueAmount:    field(row, cols, "REVENUE_AMT"),
			NTEECode:         field(row, cols, "NTEE_CD"),
			SortName:         field(row, cols, "SORT_NAME"),
		}
		if rec.EIN == "" {
			return false
		}
		idx.Records = append(idx.Records, rec)
		return true
	})
	if err != nil {
		return nil, irs990.Errorf(irs990.EMALFORMED, "bmf index %q: %s", string(region), irs990.ErrorMessage(err))
	}

	idx.Skipped = skipped
	return idx, nil
}
