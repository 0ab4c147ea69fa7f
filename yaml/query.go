// Package yaml parses declarative query files.
package yaml

import (
	"os"
	"sort"

	"github.com/fwojciec/irs990"
	"github.com/fwojciec/irs990/query"
	"gopkg.in/yaml.v2"
)

// queryFile is the on-disk shape of a declarative query.
type queryFile struct {
	Years   []int             `yaml:"years"`
	Regions []string          `yaml:"regions"`
	Annual  map[string]string `yaml:"annual"`
	BMF     map[string]string `yaml:"bmf"`
	Filing  map[string]string `yaml:"filing"`
}

// ParseQueryFile reads and parses a declarative query file.
func ParseQueryFile(path string, reg *irs990.Registry) (query.Query, []irs990.FilingFilter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return query.Query{}, nil, irs990.Errorf(irs990.EINVALID, "read query file: %s", err)
	}
	return ParseQuery(data, reg)
}

// ParseQuery parses a declarative query. Years and regions are validated
// eagerly; filter patterns compile with the root constructors, in name
// order so the first error is deterministic.
func ParseQuery(data []byte, reg *irs990.Registry) (query.Query, []irs990.FilingFilter, error) {
	var qf queryFile
	if err := yaml.UnmarshalStrict(data, &qf); err != nil {
		return query.Query{}, nil, irs990.Errorf(irs990.EINVALID, "parse query file: %s", err)
	}

	var q query.Query
	for _, y := range qf.Years {
		year := irs990.Year(y)
		if err := year.Validate(); err != nil {
			return query.Query{}, nil, err
		}
		q.Years = append(q.Years, year)
	}
	for _, r := range qf.Regions {
		region := irs990.Region(r)
		if err := region.Validate(); err != nil {
			return query.Query{}, nil, err
		}
		q.Regions = append(q.Regions, region)
	}

	for _, name := range sortedKeys(qf.Annual) {
		f, err := irs990.MatchAnnualField(name, qf.Annual[name])
		if err != nil {
			return query.Query{}, nil, err
		}
		q.AnnualFilters = append(q.AnnualFilters, f)
	}
	for _, name := range sortedKeys(qf.BMF) {
		f, err := irs990.MatchBMFField(name, qf.BMF[name])
		if err != nil {
			return query.Query{}, nil, err
		}
		q.BMFFilters = append(q.BMFFilters, f)
	}

	var filters []irs990.FilingFilter
	for _, name := range sortedKeys(qf.Filing) {
		f, err := irs990.MatchFilingField(reg, name, qf.Filing[name])
		if err != nil {
			return query.Query{}, nil, err
		}
		filters = append(filters, f)
	}

	return q, filters, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
