package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/irs990"
	"github.com/fwojciec/irs990/diskcache"
	"github.com/fwojciec/irs990/etree"
	"github.com/fwojciec/irs990/gemini"
	"github.com/fwojciec/irs990/goquery"
	irshttp "github.com/fwojciec/irs990/http"
	"github.com/fwojciec/irs990/index"
	irsslog "github.com/fwojciec/irs990/slog"
	"github.com/fwojciec/irs990/sqlite"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	// Load .env if present. Existing environment variables win.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Cache directory. Set before calling Run().
	CacheDir string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SavedFilingService irs990.SavedFilingService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:   defaultDBPath(),
		CacheDir: defaultCacheDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Stdin:  os.Stdin,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("irs990"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'irs990 --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	if cli.CacheDir != "" {
		m.CacheDir = cli.CacheDir
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set IRS990_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	logger := slog.New(slog.DiscardHandler)
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	var fetcher irs990.Fetcher = irshttp.NewFetcher()
	fetcher = irsslog.NewLoggingFetcher(fetcher, logger)

	var cache irs990.Cache = diskcache.New(m.CacheDir)
	if cli.NoCache {
		cache = &irs990.PassthroughCache{}
	}
	cache = irsslog.NewLoggingCache(cache, logger)

	// Wire core services into dependencies
	m.SavedFilingService = sqlite.NewSavedFilingService(m.DB)
	deps.DB = m.DB
	deps.Cache = cache
	deps.Fetcher = fetcher
	deps.Annual = index.NewAnnualService(cache, fetcher)
	deps.BMF = index.NewBMFService(cache, fetcher)
	deps.Extractor = etree.New()
	deps.Registry = irs990.DefaultRegistry()
	deps.SavedFilings = m.SavedFilingService
	deps.Regions = &goquery.RegionLister{Fetcher: fetcher}

	// Wire command-specific dependencies based on command
	if cmd == "ask" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		counter, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}

		deps.Asker = gemini.NewAsker(client, m.SavedFilingService, counter)
	}

	return kongCtx.Run(deps)
}

// tokenizerModel sizes prompts locally before they are sent to the API.
const tokenizerModel = "gemini-2.5-flash"

func defaultDBPath() string {
	if path := os.Getenv("IRS990_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "irs990.db"
	}
	dir := filepath.Join(home, ".irs990")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "irs990.db")
}

func defaultCacheDir() string {
	if path := os.Getenv("IRS990_CACHE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "cache"
	}
	return filepath.Join(home, ".irs990", "cache")
}
