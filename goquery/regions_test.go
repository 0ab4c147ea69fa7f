package goquery_test

import (
	"context"
	"testing"

	"github.com/fwojciec/irs990"
	"github.com/fwojciec/irs990/goquery"
	"github.com/fwojciec/irs990/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `<!DOCTYPE html>
<html>
<body>
<h1>Exempt Organizations Business Master File Extract (EO BMF)</h1>
<ul>
<li><a href="https://www.irs.gov/pub/irs-soi/eo_mt.csv">Montana</a></li>
<li><a href="/pub/irs-soi/eo_ca.csv">California</a></li>
<li><a href="/pub/irs-soi/EO_AK.CSV">Alaska</a></li>
<li><a href="/pub/irs-soi/eo_xx.csv">International</a></li>
<li><a href="/pub/irs-soi/eo_mt.csv">Montana again</a></li>
<li><a href="/pub/irs-soi/eo_info.pdf">About these files</a></li>
<li><a href="/pub/irs-soi/eo1.csv">Region 1 (legacy)</a></li>
<li><a href="mailto:tege@irs.gov">Contact</a></li>
</ul>
</body>
</html>`

func TestRegionLister_ListRegions(t *testing.T) {
	t.Parallel()

	t.Run("returns distinct region codes sorted", func(t *testing.T) {
		t.Parallel()

		lister := &goquery.RegionLister{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) ([]byte, error) {
					assert.Equal(t, irs990.BMFListingURL, url)
					return []byte(listingHTML), nil
				},
			},
		}

		regions, err := lister.ListRegions(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []irs990.Region{"ak", "ca", "mt", "xx"}, regions)
	})

	t.Run("respects a custom page URL", func(t *testing.T) {
		t.Parallel()

		lister := &goquery.RegionLister{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) ([]byte, error) {
					assert.Equal(t, "https://example.test/listing", url)
					return []byte(listingHTML), nil
				},
			},
			PageURL: "https://example.test/listing",
		}

		_, err := lister.ListRegions(context.Background())
		require.NoError(t, err)
	})

	t.Run("preserves the fetch error code", func(t *testing.T) {
		t.Parallel()

		lister := &goquery.RegionLister{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) ([]byte, error) {
					return nil, irs990.Errorf(irs990.ENETWORK, "HTTP 503 from %s", url)
				},
			},
		}

		_, err := lister.ListRegions(context.Background())
		require.Error(t, err)
		assert.Equal(t, irs990.ENETWORK, irs990.ErrorCode(err))
		assert.Contains(t, irs990.ErrorMessage(err), "region listing")
	})

	t.Run("reports a page without region links as not found", func(t *testing.T) {
		t.Parallel()

		lister := &goquery.RegionLister{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) ([]byte, error) {
					return []byte("<html><body><p>Moved.</p></body></html>"), nil
				},
			},
		}

		_, err := lister.ListRegions(context.Background())
		require.Error(t, err)
		assert.Equal(t, irs990.ENOTFOUND, irs990.ErrorCode(err))
	})
}
