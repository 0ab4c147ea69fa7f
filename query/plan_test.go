package query_test

import (
	"context"
	"testing"

	"github.com/fwojciec/irs990"
	"github.com/fwojciec/irs990/mock"
	"github.com/fwojciec/irs990/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanner_Plan(t *testing.T) {
	t.Parallel()

	t.Run("joins annual records with BMF EINs when regions are present", func(t *testing.T) {
		t.Parallel()

		annual := &mock.AnnualIndexService{
			LoadAnnualIndexFn: func(ctx context.Context, year irs990.Year) (*irs990.AnnualIndex, error) {
				return &irs990.AnnualIndex{
					Year: year,
					Records: []irs990.AnnualRecord{
						{EIN: "111000000", ObjectID: "201901319349300000"},
						{EIN: "333000000", ObjectID: "201901339349300111"},
					},
				}, nil
			},
		}
		bmf := &mock.BMFIndexService{
			LoadBMFIndexFn: func(ctx context.Context, region irs990.Region) (*irs990.BMFIndex, error) {
				return &irs990.BMFIndex{
					Region: region,
					Records: []irs990.BMFRecord{
						{EIN: "111000000", State: "MT"},
						{EIN: "222000000", State: "MT"},
					},
				}, nil
			},
		}
		p := &query.Planner{Annual: annual, BMF: bmf}

		plan, err := p.Plan(context.Background(), query.Query{
			Years:   []irs990.Year{2019},
			Regions: []irs990.Region{"mt"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"201901319349300000"}, plan.ObjectIDs)
		assert.Equal(t, 1, plan.Matched)
	})

	t.Run("skips the join when no regions are requested", func(t *testing.T) {
		t.Parallel()

		annual := &mock.AnnualIndexService{
			LoadAnnualIndexFn: func(ctx context.Context, year irs990.Year) (*irs990.AnnualIndex, error) {
				return &irs990.AnnualIndex{
					Year: year,
					Records: []irs990.AnnualRecord{
						{EIN: "111000000", ObjectID: "201901319349300000"},
						{EIN: "333000000", ObjectID: "201901339349300111"},
					},
				}, nil
			},
		}
		bmf := &mock.BMFIndexService{
			LoadBMFIndexFn: func(ctx context.Context, region irs990.Region) (*irs990.BMFIndex, error) {
				t.Fatal("BMF index should not be consulted")
				return nil, nil
			},
		}
		p := &query.Planner{Annual: annual, BMF: bmf}

		plan, err := p.Plan(context.Background(), query.Query{Years: []irs990.Year{2019}})
		require.NoError(t, err)
		assert.Equal(t, []string{"201901319349300000", "201901339349300111"}, plan.ObjectIDs)
		assert.Equal(t, 2, plan.Matched)
	})

	t.Run("rejects a query without years", func(t *testing.T) {
		t.Parallel()

		p := &query.Planner{}

		_, err := p.Plan(context.Background(), query.Query{Regions: []irs990.Region{"mt"}})
		require.Error(t, err)
		assert.Equal(t, irs990.EINVALID, irs990.ErrorCode(err))
	})

	t.Run("rejects BMF filters without regions", func(t *testing.T) {
		t.Parallel()

		filter, err := irs990.MatchBMFField("state", "^MT$")
		require.NoError(t, err)
		p := &query.Planner{}

		_, err = p.Plan(context.Background(), query.Query{
			Years:      []irs990.Year{2019},
			BMFFilters: []irs990.BMFFilter{filter},
		})
		require.Error(t, err)
		assert.Equal(t, irs990.EINVALID, irs990.ErrorCode(err))
	})

	t.Run("applies annual filters", func(t *testing.T) {
		t.Parallel()

		annual := &mock.AnnualIndexService{
			LoadAnnualIndexFn: func(ctx context.Context, year irs990.Year) (*irs990.AnnualIndex, error) {
				return &irs990.AnnualIndex{
					Year: year,
					Records: []irs990.AnnualRecord{
						{EIN: "111000000", TaxpayerName: "FOOD BANK OF MONTANA", ObjectID: "201901319349300000"},
						{EIN: "222000000", TaxpayerName: "HELENA ARTS COUNCIL", ObjectID: "201901339349300111"},
					},
				}, nil
			},
		}
		filter, err := irs990.MatchAnnualField("taxpayer_name", "^food")
		require.NoError(t, err)
		p := &query.Planner{Annual: annual}

		plan, err := p.Plan(context.Background(), query.Query{
			Years:         []irs990.Year{2019},
			AnnualFilters: []irs990.AnnualFilter{filter},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"201901319349300000"}, plan.ObjectIDs)
	})

	t.Run("applies BMF filters to the EIN set", func(t *testing.T) {
		t.Parallel()

		annual := &mock.AnnualIndexService{
			LoadAnnualIndexFn: func(ctx context.Context, year irs990.Year) (*irs990.AnnualIndex, error) {
				return &irs990.AnnualIndex{
					Year: year,
					Records: []irs990.AnnualRecord{
						{EIN: "111000000", ObjectID: "201901319349300000"},
						{EIN: "222000000", ObjectID: "201901339349300111"},
					},
				}, nil
			},
		}
		bmf := &mock.BMFIndexService{
			LoadBMFIndexFn: func(ctx context.Context, region irs990.Region) (*irs990.BMFIndex, error) {
				return &irs990.BMFIndex{
					Region: region,
					Records: []irs990.BMFRecord{
						{EIN: "111000000", NTEECode: "K31"},
						{EIN: "222000000", NTEECode: "A51"},
					},
				}, nil
			},
		}
		filter, err := irs990.MatchBMFField("ntee_code", "^K")
		require.NoError(t, err)
		p := &query.Planner{Annual: annual, BMF: bmf}

		plan, err := p.Plan(context.Background(), query.Query{
			Years:      []irs990.Year{2019},
			Regions:    []irs990.Region{"mt"},
			BMFFilters: []irs990.BMFFilter{filter},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"201901319349300000"}, plan.ObjectIDs)
	})

	t.Run("deduplicates object IDs across years", func(t *testing.T) {
		t.Parallel()

		annual := &mock.AnnualIndexService{
			LoadAnnualIndexFn: func(ctx context.Context, year irs990.Year) (*irs990.AnnualIndex, error) {
				return &irs990.AnnualIndex{
					Year: year,
					Records: []irs990.AnnualRecord{
						{EIN: "111000000", ObjectID: "201901319349300000"},
					},
				}, nil
			},
		}
		p := &query.Planner{Annual: annual}

		plan, err := p.Plan(context.Background(), query.Query{Years: []irs990.Year{2019, 2020}})
		require.NoError(t, err)
		assert.Equal(t, []string{"201901319349300000"}, plan.ObjectIDs)
		assert.Equal(t, 2, plan.Matched)
	})

	t.Run("scans deduplicated years in ascending order", func(t *testing.T) {
		t.Parallel()

		var scanned []irs990.Year
		annual := &mock.AnnualIndexService{
			LoadAnnualIndexFn: func(ctx context.Context, year irs990.Year) (*irs990.AnnualIndex, error) {
				scanned = append(scanned, year)
				return &irs990.AnnualIndex{Year: year}, nil
			},
		}
		p := &query.Planner{Annual: annual}

		_, err := p.Plan(context.Background(), query.Query{Years: []irs990.Year{2020, 2019, 2019}})
		require.NoError(t, err)
		assert.Equal(t, []irs990.Year{2019, 2020}, scanned)
	})

	t.Run("scans deduplicated regions in ascending order", func(t *testing.T) {
		t.Parallel()

		var scanned []irs990.Region
		annual := &mock.AnnualIndexService{
			LoadAnnualIndexFn: func(ctx context.Context, year irs990.Year) (*irs990.AnnualIndex, error) {
				return &irs990.AnnualIndex{Year: year}, nil
			},
		}
		bmf := &mock.BMFIndexService{
			LoadBMFIndexFn: func(ctx context.Context, region irs990.Region) (*irs990.BMFIndex, error) {
				scanned = append(scanned, region)
				return &irs990.BMFIndex{Region: region}, nil
			},
		}
		p := &query.Planner{Annual: annual, BMF: bmf}

		_, err := p.Plan(context.Background(), query.Query{
			Years:   []irs990.Year{2019},
			Regions: []irs990.Region{"mt", "ca", "mt"},
		})
		require.NoError(t, err)
		assert.Equal(t, []irs990.Region{"ca", "mt"}, scanned)
	})

	t.Run("sorts object IDs ascending", func(t *testing.T) {
		t.Parallel()

		annual := &mock.AnnualIndexService{
			LoadAnnualIndexFn: func(ctx context.Context, year irs990.Year) (*irs990.AnnualIndex, error) {
				return &irs990.AnnualIndex{
					Year: year,
					Records: []irs990.AnnualRecord{
						{EIN: "333000000", ObjectID: "201901339349300111"},
						{EIN: "111000000", ObjectID: "201901319349300000"},
					},
				}, nil
			},
		}
		p := &query.Planner{Annual: annual}

		plan, err := p.Plan(context.Background(), query.Query{Years: []irs990.Year{2019}})
		require.NoError(t, err)
		assert.Equal(t, []string{"201901319349300000", "201901339349300111"}, plan.ObjectIDs)
	})

	t.Run("returns an empty plan when nothing matches", func(t *testing.T) {
		t.Parallel()

		annual := &mock.AnnualIndexService{
			LoadAnnualIndexFn: func(ctx context.Context, year irs990.Year) (*irs990.AnnualIndex, error) {
				return &irs990.AnnualIndex{Year: year}, nil
			},
		}
		p := &query.Planner{Annual: annual}

		plan, err := p.Plan(context.Background(), query.Query{Years: []irs990.Year{2019}})
		require.NoError(t, err)
		assert.Empty(t, plan.ObjectIDs)
		assert.Zero(t, plan.Matched)
	})

	t.Run("totals skipped rows across partitions", func(t *testing.T) {
		t.Parallel()

		annual := &mock.AnnualIndexService{
			LoadAnnualIndexFn: func(ctx context.Context, year irs990.Year) (*irs990.AnnualIndex, error) {
				return &irs990.AnnualIndex{Year: year, Skipped: 3}, nil
			},
		}
		bmf := &mock.BMFIndexService{
			LoadBMFIndexFn: func(ctx context.Context, region irs990.Region) (*irs990.BMFIndex, error) {
				return &irs990.BMFIndex{Region: region, Skipped: 2}, nil
			},
		}
		p := &query.Planner{Annual: annual, BMF: bmf}

		plan, err := p.Plan(context.Background(), query.Query{
			Years:   []irs990.Year{2019, 2020},
			Regions: []irs990.Region{"mt", "ca"},
		})
		require.NoError(t, err)
		assert.Equal(t, 6, plan.AnnualSkipped)
		assert.Equal(t, 4, plan.BMFSkipped)
	})

	t.Run("propagates annual index failures", func(t *testing.T) {
		t.Parallel()

		annual := &mock.AnnualIndexService{
			LoadAnnualIndexFn: func(ctx context.Context, year irs990.Year) (*irs990.AnnualIndex, error) {
				return nil, irs990.Errorf(irs990.ENETWORK, "fetch annual index: connection refused")
			},
		}
		p := &query.Planner{Annual: annual}

		_, err := p.Plan(context.Background(), query.Query{Years: []irs990.Year{2019}})
		require.Error(t, err)
		assert.Equal(t, irs990.ENETWORK, irs990.ErrorCode(err))
	})

	t.Run("propagates BMF index failures", func(t *testing.T) {
		t.Parallel()

		bmf := &mock.BMFIndexService{
			LoadBMFIndexFn: func(ctx context.Context, region irs990.Region) (*irs990.BMFIndex, error) {
				return nil, irs990.Errorf(irs990.ENOTFOUND, "BMF index for region %q not found", region)
			},
		}
		p := &query.Planner{BMF: bmf}

		_, err := p.Plan(context.Background(), query.Query{
			Years:   []irs990.Year{2019},
			Regions: []irs990.Region{"mt"},
		})
		require.Error(t, err)
		assert.Equal(t, irs990.ENOTFOUND, irs990.ErrorCode(err))
	})
}
