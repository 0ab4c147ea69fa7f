package index_test

import (
	"context"
	"testing"

	"github.com/fwojciec/irs990"
	"github.com/fwojciec/irs990/index"
	"github.com/fwojciec/irs990/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const annualCSV = "RETURN_ID,FILING_TYPE,EIN,TAX_PERIOD,SUB_DATE,TAXPAYER_NAME,RETURN_TYPE,DLN,OBJECT_ID\n" +
	"16285381,EFILE,810402919,201812,2019-11-26,FRIENDS OF MONTANA PBS,990,93493319012399,201943209349301234\n" +
	"16285382,EFILE,846033462,201812,2019-11-26,PINTLER SCOUTING LEGACY,990EZ,93492319021399,201943209349301299\n"

func passthroughFetcher(payload string, calls *int) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) ([]byte, error) {
			*calls++
			return []byte(payload), nil
		},
	}
}

func TestAnnualService_LoadAnnualIndex(t *testing.T) {
	t.Parallel()

	t.Run("parses every column", func(t *testing.T) {
		t.Parallel()

		calls := 0
		svc := index.NewAnnualService(&irs990.PassthroughCache{}, passthroughFetcher(annualCSV, &calls))

		idx, err := svc.LoadAnnualIndex(context.Background(), 2019)
		require.NoError(t, err)

		require.Len(t, idx.Records, 2)
		rec := idx.Records[0]
		assert.Equal(t, "16285381", rec.ReturnID)
		assert.Equal(t, "EFILE", rec.FilingType)
		assert.Equal(t, "810402919", rec.EIN)
		assert.Equal(t, "201812", rec.TaxPeriod)
		assert.Equal(t, "2019-11-26", rec.SubmittedOn)
		assert.Equal(t, "FRIENDS OF MONTANA PBS", rec.TaxpayerName)
		assert.Equal(t, "990", rec.ReturnType)
		assert.Equal(t, "93493319012399", rec.DLN)
		assert.Equal(t, "201943209349301234", rec.ObjectID)
		assert.Zero(t, idx.Skipped)
	})

	t.Run("maps columns by header, not position", func(t *testing.T) {
		t.Parallel()

		csv := "OBJECT_ID,EIN,TAXPAYER_NAME\n201900000000000001,810000000,REORDERED ORG\n"
		calls := 0
		svc := index.NewAnnualService(&irs990.PassthroughCache{}, passthroughFetcher(csv, &calls))

		idx, err := svc.LoadAnnualIndex(context.Background(), 2019)
		require.NoError(t, err)

		require.Len(t, idx.Records, 1)
		assert.Equal(t, "810000000", idx.Records[0].EIN)
		assert.Equal(t, "201900000000000001", idx.Records[0].ObjectID)
		assert.Equal(t, "REORDERED ORG", idx.Records[0].TaxpayerName)
		assert.Empty(t, idx.Records[0].DLN)
	})

	t.Run("skips and counts rows missing required fields", func(t *testing.T) {
		t.Parallel()

		csv := "EIN,OBJECT_ID\n" +
			"810000000,201900000000000001\n" +
			",201900000000000002\n" +
			"810000002,\n" +
			"810000003,201900000000000003\n"
		calls := 0
		svc := index.NewAnnualService(&irs990.PassthroughCache{}, passthroughFetcher(csv, &calls))

		idx, err := svc.LoadAnnualIndex(context.Background(), 2019)
		require.NoError(t, err)

		assert.Len(t, idx.Records, 2)
		assert.Equal(t, 2, idx.Skipped)
	})

	t.Run("decodes windows-1252 payloads", func(t *testing.T) {
		t.Parallel()

		csv := "EIN,OBJECT_ID,TAXPAYER_NAME\n810000000,201900000000000001,CAF\xc9 SOCIETY\n"
		calls := 0
		svc := index.NewAnnualService(&irs990.PassthroughCache{}, passthroughFetcher(csv, &calls))

		idx, err := svc.LoadAnnualIndex(context.Background(), 2019)
		require.NoError(t, err)

		require.Len(t, idx.Records, 1)
		assert.Equal(t, "CAFÉ SOCIETY", idx.Records[0].TaxpayerName)
	})

	t.Run("rejects years before the first index without fetching", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{FetchFn: func(ctx context.Context, url string) ([]byte, error) {
			t.Fatal("fetch should not run for an invalid year")
			return nil, nil
		}}
		svc := index.NewAnnualService(&irs990.PassthroughCache{}, fetcher)

		_, err := svc.LoadAnnualIndex(context.Background(), 1776)

		require.Error(t, err)
		assert.Equal(t, irs990.ENOTFOUND, irs990.ErrorCode(err))
	})

	t.Run("fetches through the cache with a namespaced key", func(t *testing.T) {
		t.Parallel()

		var gotKey, gotURL string
		cache := &mock.Cache{GetOrFetchFn: func(ctx context.Context, key string, fn irs990.FetchFunc) ([]byte, error) {
			gotKey = key
			return fn(ctx)
		}}
		fetcher := &mock.Fetcher{FetchFn: func(ctx context.Context, url string) ([]byte, error) {
			gotURL = url
			return []byte("EIN,OBJECT_ID\n"), nil
		}}
		svc := index.NewAnnualService(cache, fetcher)

		_, err := svc.LoadAnnualIndex(context.Background(), 2019)
		require.NoError(t, err)

		assert.Equal(t, "annual-2019", gotKey)
		assert.Equal(t, "https://s3.amazonaws.com/irs-form-990/index_2019.csv", gotURL)
	})

	t.Run("fetches twice when caching is disabled", func(t *testing.T) {
		t.Parallel()

		calls := 0
		svc := index.NewAnnualService(&irs990.PassthroughCache{}, passthroughFetcher(annualCSV, &calls))

		_, err := svc.LoadAnnualIndex(context.Background(), 2019)
		require.NoError(t, err)
		_, err = svc.LoadAnnualIndex(context.Background(), 2019)
		require.NoError(t, err)

		assert.Equal(t, 2, calls)
	})

	t.Run("empty payload is malformed", func(t *testing.T) {
		t.Parallel()

		calls := 0
		svc := index.NewAnnualService(&irs990.PassthroughCache{}, passthroughFetcher("", &calls))

		_, err := svc.LoadAnnualIndex(context.Background(), 2019)

		require.Error(t, err)
		assert.Equal(t, irs990.EMALFORMED, irs990.ErrorCode(err))
	})

	t.Run("preserves the fetch error code", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{FetchFn: func(ctx context.Context, url string) ([]byte, error) {
			return nil, irs990.Errorf(irs990.ENETWORK, "connection reset")
		}}
		svc := index.NewAnnualService(&irs990.PassthroughCache{}, fetcher)

		_, err := svc.LoadAnnualIndex(context.Background(), 2019)

		require.Error(t, err)
		assert.Equal(t, irs990.ENETWORK, irs990.ErrorCode(err))
		assert.Contains(t, irs990.ErrorMessage(err), "annual index 2019")
	})
}
