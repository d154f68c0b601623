package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/corpix/uarand"
	"github.com/fwojciec/medfeed"
	"github.com/fwojciec/medfeed/crawl"
	"github.com/fwojciec/medfeed/fs"
	"github.com/fwojciec/medfeed/goquery"
	"github.com/fwojciec/medfeed/htmltomarkdown"
	medhttp "github.com/fwojciec/medfeed/http"
	"github.com/fwojciec/medfeed/readability"
	"github.com/fwojciec/medfeed/rod"
	medslog "github.com/fwojciec/medfeed/slog"
	"github.com/fwojciec/medfeed/sqlite"
	"github.com/fwojciec/medfeed/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ArticleService medfeed.ArticleService
	VideoService   medfeed.VideoService
	PriceService   medfeed.PriceService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
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
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("medfeed"),
		kong.Description("Crawl medical articles, videos and price listings into a local database"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'medfeed --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	command := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose)
	deps.BaseURL = cli.BaseURL

	dbPath := m.DBPath
	if cli.DB != "" {
		dbPath = cli.DB
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set MEDFEED_DB or --db to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	m.ArticleService = sqlite.NewArticleService(m.DB)
	m.VideoService = sqlite.NewVideoService(m.DB)
	m.PriceService = sqlite.NewPriceService(m.DB)
	deps.DB = m.DB
	deps.Articles = medslog.NewLoggingArticleService(m.ArticleService, deps.Logger)
	deps.Videos = medslog.NewLoggingVideoService(m.VideoService, deps.Logger)
	deps.Prices = medslog.NewLoggingPriceService(m.PriceService, deps.Logger)
	deps.Renderer = htmltomarkdown.NewConverter()
	deps.NewExportStore = func(dir, name string) medfeed.ExportStore {
		return fs.NewExportStore(dir, name)
	}

	switch command {
	case "article", "catalog", "videos", "prices":
		var referer string
		if command == "videos" {
			referer = cli.Videos.URL
		}
		fetcher, err := newFetcher(cli, referer)
		if err != nil {
			if cli.Browser {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --browser")
			}
			return fmt.Errorf("failed to create fetcher: %w", err)
		}
		defer fetcher.Close()
		deps.Fetcher = medslog.NewLoggingFetcher(fetcher, deps.Logger)
		deps.RateLimiter = crawl.NewDomainLimiter(cli.Delay)
	}

	switch command {
	case "article", "catalog":
		filter, err := medfeed.NewImageFilter(slices.Concat(medfeed.DefaultImageExclusions, cli.ExcludeImage)...)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", medfeed.ErrorMessage(err))
			return err
		}
		articleParser := goquery.NewArticleParser(filter)
		articleParser.Fallback = medfeed.MetadataChain{
			trafilatura.NewMetadataExtractor(),
			readability.NewMetadataExtractor(),
		}

		deps.Crawler = &crawl.Crawler{
			Fetcher:     deps.Fetcher,
			Parser:      articleParser,
			Articles:    deps.Articles,
			RateLimiter: deps.RateLimiter,
		}
	case "videos":
		deps.Poster = medhttp.NewFetcher(append(httpOptions(cli),
			medhttp.WithReferer(cli.Videos.URL),
			medhttp.WithHeaders(map[string]string{
				"Origin":           originOf(cli.Videos.URL),
				"X-Requested-With": "XMLHttpRequest",
			}),
		)...)
		deps.VideoCrawler = &crawl.VideoCrawler{
			Fetcher:     deps.Fetcher,
			Parser:      goquery.NewVideoParser(),
			Videos:      deps.Videos,
			RateLimiter: deps.RateLimiter,
		}
	case "prices":
		deps.PriceCrawler = &crawl.PriceCrawler{
			Fetcher:     deps.Fetcher,
			Extractor:   goquery.NewPriceTableExtractor(),
			Prices:      deps.Prices,
			RateLimiter: deps.RateLimiter,
		}
	}

	return kongCtx.Run(deps)
}

// newFetcher builds the page fetcher selected by the global flags.
// A non-empty referer is sent with every page request.
func newFetcher(cli *CLI, referer string) (medfeed.Fetcher, error) {
	if !cli.Browser {
		opts := httpOptions(cli)
		if referer != "" {
			opts = append(opts, medhttp.WithReferer(referer))
		}
		return medhttp.NewFetcher(opts...), nil
	}

	var browserOpts []rod.ManagerOption
	if cli.RandomAgent {
		browserOpts = append(browserOpts, rod.WithUserAgent(uarand.GetRandom()))
	}
	opts := []rod.Option{
		rod.WithFetchTimeout(cli.Timeout),
		rod.WithBrowserOptions(browserOpts...),
	}
	if referer != "" {
		opts = append(opts, rod.WithReferer(referer))
	}
	return rod.NewFetcher(opts...)
}

// httpOptions maps the global flags onto static fetcher options.
func httpOptions(cli *CLI) []medhttp.Option {
	opts := []medhttp.Option{medhttp.WithTimeout(cli.Timeout)}
	if cli.RandomAgent {
		opts = append(opts, medhttp.WithRandomUserAgent())
	}
	return opts
}

// newLogger writes diagnostics to w. Only warnings are shown unless
// verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("MEDFEED_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "medfeed.db"
	}
	dir := filepath.Join(home, ".medfeed")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "medfeed.db")
}
