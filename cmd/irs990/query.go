package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/irs990"
	"github.com/fwojciec/irs990/query"
	"github.com/fwojciec/irs990/yaml"
)

// confirmThreshold is the filing count above which the query command asks
// before downloading.
const confirmThreshold = 100

// Run executes the query command.
func (c *QueryCmd) Run(deps *Dependencies) error {
	q, filters, err := c.buildQuery(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", irs990.ErrorMessage(err))
		return err
	}

	planner := &query.Planner{Annual: deps.Annual, BMF: deps.BMF}
	plan, err := planner.Plan(deps.Ctx, q)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", irs990.ErrorMessage(err))
		return err
	}

	if c.DryRun {
		fmt.Fprintf(deps.Stdout, "Matched %d filings across %d records\n", len(plan.ObjectIDs), plan.Matched)
		if plan.AnnualSkipped > 0 || plan.BMFSkipped > 0 {
			fmt.Fprintf(deps.Stdout, "Skipped %d annual and %d BMF index rows with missing fields\n", plan.AnnualSkipped, plan.BMFSkipped)
		}
		return nil
	}

	ids := plan.ObjectIDs
	if c.Limit > 0 && len(ids) > c.Limit {
		ids = ids[:c.Limit]
	}

	if len(ids) > confirmThreshold && !c.NoConfirm {
		if !confirm(deps, len(ids)) {
			fmt.Fprintln(deps.Stdout, "Aborted.")
			return nil
		}
	}

	retriever := &query.Retriever{
		Cache:       deps.Cache,
		Fetcher:     deps.Fetcher,
		Extractor:   deps.Extractor,
		Registry:    deps.Registry,
		Filters:     filters,
		Concurrency: c.Concurrency,
	}

	printed := 0
	saved := 0
	cur := retriever.Filings(deps.Ctx, ids)
	for cur.Next(deps.Ctx) {
		filing := cur.Filing()

		if c.JSON {
			b, err := json.Marshal(filing)
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, string(b))
		} else {
			if printed > 0 {
				fmt.Fprintln(deps.Stdout)
			}
			fmt.Fprintln(deps.Stdout, irs990.FormatFilings([]*irs990.Filing{filing}, deps.Registry))
		}
		printed++

		if c.Save {
			sf := &irs990.SavedFiling{ObjectID: filing.ObjectID, Fields: filing.Fields}
			switch err := deps.SavedFilings.CreateSavedFiling(deps.Ctx, sf); irs990.ErrorCode(err) {
			case "":
				saved++
			case irs990.ECONFLICT:
				fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", filing.ObjectID, irs990.ErrorMessage(err))
			default:
				fmt.Fprintf(deps.Stderr, "error: %s\n", irs990.ErrorMessage(err))
				return err
			}
		}
	}
	if err := cur.Err(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", irs990.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stderr, "Retrieved %d of %d filings", printed, len(ids))
	if cur.Skipped() > 0 {
		fmt.Fprintf(deps.Stderr, " (%d malformed)", cur.Skipped())
	}
	if c.Save {
		fmt.Fprintf(deps.Stderr, ", saved %d", saved)
	}
	fmt.Fprintln(deps.Stderr)

	return nil
}

// buildQuery assembles the query from the query file, if any, with flag
// values appended on top.
func (c *QueryCmd) buildQuery(deps *Dependencies) (query.Query, []irs990.FilingFilter, error) {
	var q query.Query
	var filters []irs990.FilingFilter

	if c.QueryFile != "" {
		parsed, parsedFilters, err := yaml.ParseQueryFile(c.QueryFile, deps.Registry)
		if err != nil {
			return query.Query{}, nil, err
		}
		q = parsed
		filters = parsedFilters
	}

	for _, y := range c.Year {
		year := irs990.Year(y)
		if err := year.Validate(); err != nil {
			return query.Query{}, nil, err
		}
		q.Years = append(q.Years, year)
	}
	for _, r := range c.Region {
		region := irs990.Region(strings.ToLower(r))
		if err := region.Validate(); err != nil {
			return query.Query{}, nil, err
		}
		q.Regions = append(q.Regions, region)
	}
	for _, arg := range c.Annual {
		name, pattern, err := splitFilterArg(arg)
		if err != nil {
			return query.Query{}, nil, err
		}
		f, err := irs990.MatchAnnualField(name, pattern)
		if err != nil {
			return query.Query{}, nil, err
		}
		q.AnnualFilters = append(q.AnnualFilters, f)
	}
	for _, arg := range c.BMF {
		name, pattern, err := splitFilterArg(arg)
		if err != nil {
			return query.Query{}, nil, err
		}
		f, err := irs990.MatchBMFField(name, pattern)
		if err != nil {
			return query.Query{}, nil, err
		}
		q.BMFFilters = append(q.BMFFilters, f)
	}
	for _, arg := range c.Filing {
		name, pattern, err := splitFilterArg(arg)
		if err != nil {
			return query.Query{}, nil, err
		}
		f, err := irs990.MatchFilingField(deps.Registry, name, pattern)
		if err != nil {
			return query.Query{}, nil, err
		}
		filters = append(filters, f)
	}

	return q, filters, nil
}

// splitFilterArg splits a name=regex flag value.
func splitFilterArg(arg string) (name, pattern string, err error) {
	name, pattern, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return "", "", irs990.Errorf(irs990.EINVALID, "filter %q must have the form name=regex", arg)
	}
	return name, pattern, nil
}

// confirm prompts before a large download. A missing stdin counts as a no.
func confirm(deps *Dependencies, n int) bool {
	fmt.Fprintf(deps.Stderr, "About to download %d filings. Continue? [y/N] ", n)
	if deps.Stdin == nil {
		return false
	}
	line, _ := bufio.NewReader(deps.Stdin).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
