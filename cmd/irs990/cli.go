package main

import (
	"context"
	"io"

	"github.com/fwojciec/irs990"
	"github.com/fwojciec/irs990/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	DB           *sqlite.DB
	Cache        irs990.Cache
	Fetcher      irs990.Fetcher
	Annual       irs990.AnnualIndexService
	BMF          irs990.BMFIndexService
	Extractor    irs990.Extractor
	Registry     *irs990.Registry
	SavedFilings irs990.SavedFilingService
	Regions      irs990.RegionLister
	Asker        irs990.Asker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	CacheDir string `help:"Cache directory (default ~/.irs990/cache)"`
	NoCache  bool   `help:"Bypass the disk cache"`
	DB       string `help:"SQLite database path (default ~/.irs990/irs990.db)"`
	Verbose  bool   `short:"v" help:"Log fetch and cache activity to stderr"`

	Query   QueryCmd   `cmd:"" help:"Retrieve filings for years, regions, and filters"`
	Fields  FieldsCmd  `cmd:"" help:"List the extractable filing fields"`
	Regions RegionsCmd `cmd:"" help:"List the BMF region codes"`
	Saved   SavedCmd   `cmd:"" help:"Manage saved filings"`
	Ask     AskCmd     `cmd:"" help:"Ask a question about saved filings"`
}

// QueryCmd is the "query" subcommand.
type QueryCmd struct {
	Year        []int    `short:"y" help:"Index year to scan (repeatable)"`
	Region      []string `short:"r" help:"Region code to join against (repeatable)"`
	Annual      []string `help:"Annual index filter as name=regex (repeatable)"`
	BMF         []string `name:"bmf" help:"Business Master File filter as name=regex (repeatable)"`
	Filing      []string `help:"Extracted field filter as name=regex (repeatable)"`
	QueryFile   string   `short:"q" help:"YAML query file; flags add to it"`
	DryRun      bool     `help:"Print the matched filing count without downloading"`
	NoConfirm   bool     `help:"Skip the large-download confirmation"`
	Limit       int      `short:"n" help:"Stop after this many filings"`
	Concurrency int      `short:"c" default:"5" help:"Concurrent download limit"`
	Save        bool     `short:"s" help:"Save each filing to the database"`
	JSON        bool     `name:"json" help:"Print filings as JSON lines"`
}

// FieldsCmd is the "fields" subcommand.
type FieldsCmd struct{}

// RegionsCmd is the "regions" subcommand.
type RegionsCmd struct {
	Remote bool `help:"Scrape the live IRS listing instead of the built-in table"`
}

// SavedCmd groups the saved-filing subcommands.
type SavedCmd struct {
	List   SavedListCmd   `cmd:"" help:"List saved filings"`
	Delete SavedDeleteCmd `cmd:"" help:"Delete a saved filing"`
}

// SavedListCmd is the "saved list" subcommand.
type SavedListCmd struct {
	ObjectID string `help:"Only filings extracted from this object ID"`
	Limit    int    `help:"Maximum number of filings to list"`
	Offset   int    `help:"Number of filings to skip"`
	Full     bool   `help:"Show every extracted field"`
}

// SavedDeleteCmd is the "saved delete" subcommand.
type SavedDeleteCmd struct {
	ID    string `arg:"" help:"Saved filing ID"`
	Force bool   `help:"Confirm deletion"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the saved filings"`
}
