// Package query plans and executes filing retrievals across the IRS
// indices.
//
// Planning joins the annual e-file index with the Business Master File on
// EIN and yields a deterministic object-ID sequence; retrieval walks that
// sequence through the document cache and the extractor.
package query

import (
	"context"
	"sort"

	"github.com/fwojciec/irs990"
)

// Query describes one retrieval: which index partitions to scan and which
// records to keep.
type Query struct {
	Years   []irs990.Year
	Regions []irs990.Region

	AnnualFilters []irs990.AnnualFilter
	BMFFilters    []irs990.BMFFilter
}

// Validate returns an error if the query is not executable. BMF filters
// without a region would silently match nothing, so they are rejected.
func (q *Query) Validate() error {
	if len(q.Years) == 0 {
		return irs990.Errorf(irs990.EINVALID, "at least one year required")
	}
	if len(q.BMFFilters) > 0 && len(q.Regions) == 0 {
		return irs990.Errorf(irs990.EINVALID, "BMF filters require at least one region")
	}
	return nil
}

// Plan is the deterministic outcome of planning a query.
type Plan struct {
	// ObjectIDs identify the matched filing documents, deduplicated and
	// sorted ascending.
	ObjectIDs []string

	// Matched counts the annual records that survived the filters and
	// the join, before object IDs are deduplicated.
	Matched int

	// AnnualSkipped and BMFSkipped total the index rows dropped during
	// parsing across the scanned partitions.
	AnnualSkipped int
	BMFSkipped    int
}

// Planner matches index records across the two indices.
type Planner struct {
	Annual irs990.AnnualIndexService
	BMF    irs990.BMFIndexService
}

// Plan loads the requested partitions and returns the matching object IDs.
// The EIN intersection with the BMF index applies exactly when the query
// names at least one region; annual filters apply before the join check.
func (p *Planner) Plan(ctx context.Context, q Query) (*Plan, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	plan := &Plan{}

	regions := dedupRegions(q.Regions)
	join := len(regions) > 0
	var eins map[string]struct{}
	if join {
		eins = make(map[string]struct{})
		for _, region := range regions {
			idx, err := p.BMF.LoadBMFIndex(ctx, region)
			if err != nil {
				return nil, err
			}
			plan.BMFSkipped += idx.Skipped
			for i := range idx.Records {
				rec := &idx.Records[i]
				if !matchBMF(rec, q.BMFFilters) {
					continue
				}
				eins[rec.EIN] = struct{}{}
			}
		}
	}

	seen := make(map[string]struct{})
	for _, year := range dedupYears(q.Years) {
		idx, err := p.Annual.LoadAnnualIndex(ctx, year)
		if err != nil {
			return nil, err
		}
		plan.AnnualSkipped += idx.Skipped
		for i := range idx.Records {
			rec := &idx.Records[i]
			if !matchAnnual(rec, q.AnnualFilters) {
				continue
			}
			if join {
				if _, ok := eins[rec.EIN]; !ok {
					continue
				}
			}
			plan.Matched++
			if _, ok := seen[rec.ObjectID]; ok {
				continue
			}
			seen[rec.ObjectID] = struct{}{}
			plan.ObjectIDs = append(plan.ObjectIDs, rec.ObjectID)
		}
	}

	sort.Strings(plan.ObjectIDs)
	return plan, nil
}

func dedupYears(years []irs990.Year) []irs990.Year {
	seen := make(map[irs990.Year]struct{}, len(years))
	out := make([]irs990.Year, 0, len(years))
	for _, y := range years {
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func dedupRegions(regions []irs990.Region) []irs990.Region {
	seen := make(map[irs990.Region]struct{}, len(regions))
	out := make([]irs990.Region, 0, len(regions))
	for _, r := range regions {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func matchAnnual(rec *irs990.AnnualRecord, filters []irs990.AnnualFilter) bool {
	for _, match := range filters {
		if !match(rec) {
			return false
		}
	}
	return true
}

func matchBMF(rec *irs990.BMFRecord, filters []irs990.BMFFilter) bool {
	for _, match := range filters {
		if !match(rec) {
			return false
		}
	}
	return true
}
