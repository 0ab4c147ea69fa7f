package query

import (
	"context"

	"github.com/fwojciec/irs990"
	"golang.org/x/sync/errgroup"
)

// Retriever fetches planned filings through the cache and extracts their
// fields.
type Retriever struct {
	Cache     irs990.Cache
	Fetcher   irs990.Fetcher
	Extractor irs990.Extractor
	Registry  *irs990.Registry

	// Filters drop extracted filings that do not match. Dropped filings
	// are not reported by the cursor and are not counted as skipped.
	Filters []irs990.FilingFilter

	// BaseURL overrides the public document endpoint when set.
	BaseURL string

	// Concurrency greater than one warms the cache ahead of the
	// consumer. Results are still delivered in sequence order.
	Concurrency int
}

// Filings returns a cursor over the extracted filings for objectIDs,
// in the given order.
func (r *Retriever) Filings(ctx context.Context, objectIDs []string) *Cursor {
	c := &Cursor{r: r, ids: objectIDs}
	if r.Concurrency > 1 {
		c.prefetch(ctx)
	}
	return c
}

func (r *Retriever) fetch(ctx context.Context, objectID string) ([]byte, error) {
	base := r.BaseURL
	if base == "" {
		base = irs990.EfileBaseURL
	}
	url := irs990.FilingURL(base, objectID)
	return r.Cache.GetOrFetch(ctx, "filing-"+objectID, func(ctx context.Context) ([]byte, error) {
		return r.Fetcher.Fetch(ctx, url)
	})
}

// Cursor iterates extracted filings in plan order. It is not safe for
// concurrent use.
type Cursor struct {
	r       *Retriever
	ids     []string
	pos     int
	cur     *irs990.Filing
	err     error
	skipped int
}

// Next advances to the next filing that parses and passes the filters. It
// returns false when the sequence is exhausted or a retrieval fails; Err
// distinguishes the two.
func (c *Cursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	for c.pos < len(c.ids) {
		id := c.ids[c.pos]
		c.pos++

		data, err := c.r.fetch(ctx, id)
		if err != nil {
			c.err = irs990.Errorf(irs990.EFETCHFAILED, "filing %s: %s", id, irs990.ErrorMessage(err))
			return false
		}

		filing, err := c.r.Extractor.Extract(data, c.r.Registry)
		if err != nil {
			if irs990.ErrorCode(err) == irs990.EMALFORMED {
				c.skipped++
				continue
			}
			c.err = err
			return false
		}
		filing.ObjectID = id

		if !matchFiling(filing, c.r.Filters) {
			continue
		}
		c.cur = filing
		return true
	}
	return false
}

// Filing returns the filing the last successful Next call advanced to.
func (c *Cursor) Filing() *irs990.Filing { return c.cur }

// Err returns the error that stopped the cursor, if any.
func (c *Cursor) Err() error { return c.err }

// Skipped reports how many malformed documents were passed over.
func (c *Cursor) Skipped() int { return c.skipped }

// prefetch warms the cache for upcoming object IDs. Fetch failures are
// ignored here; the consumer path reports them when it reaches the same
// document.
func (c *Cursor) prefetch(ctx context.Context) {
	var g errgroup.Group
	g.SetLimit(c.r.Concurrency)
	ids := c.ids
	go func() {
		for _, id := range ids {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				_, _ = c.r.fetch(ctx, id)
				return nil
			})
		}
		_ = g.Wait()
	}()
}

func matchFiling(filing *irs990.Filing, filters []irs990.FilingFilter) bool {
	for _, match := range filters {
		if !match(filing) {
			return false
		}
	}
	return true
}
