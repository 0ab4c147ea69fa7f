// Package goquery discovers published BMF regions by scraping the IRS
// listing page.
package goquery

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/irs990"
)

var _ irs990.RegionLister = (*RegionLister)(nil)

// regionFileRE matches links to per-region extract files, e.g. eo_mt.csv.
var regionFileRE = regexp.MustCompile(`(?:^|/)eo_([a-z]{2})\.csv$`)

// RegionLister lists the regions the IRS currently publishes by reading
// the Exempt Organizations Business Master File Extract page.
type RegionLister struct {
	Fetcher irs990.Fetcher

	// PageURL overrides the listing page location when set.
	PageURL string
}

// ListRegions fetches the listing page and returns the distinct region
// codes found in eo_<code>.csv links, sorted ascending.
func (l *RegionLister) ListRegions(ctx context.Context) ([]irs990.Region, error) {
	pageURL := l.PageURL
	if pageURL == "" {
		pageURL = irs990.BMFListingURL
	}

	data, err := l.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, irs990.Errorf(irs990.ErrorCode(err), "region listing: %s", irs990.ErrorMessage(err))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, irs990.Errorf(irs990.EMALFORMED, "parse region listing: %s", err)
	}

	seen := make(map[irs990.Region]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		m := regionFileRE.FindStringSubmatch(strings.ToLower(u.Path))
		if m == nil {
			return
		}
		seen[irs990.Region(m[1])] = struct{}{}
	})
	if len(seen) == 0 {
		return nil, irs990.Errorf(irs990.ENOTFOUND, "no region files found at %s", pageURL)
	}

	regions := make([]irs990.Region, 0, len(seen))
	for r := range seen {
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i] < regions[j] })
	return regions, nil
}
