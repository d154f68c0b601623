package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/medfeed"
	"github.com/fwojciec/medfeed/crawl"
	medhttp "github.com/fwojciec/medfeed/http"
	"github.com/fwojciec/medfeed/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// BaseURL resolves relative article URLs.
	BaseURL string

	DB       *sqlite.DB
	Articles medfeed.ArticleService
	Videos   medfeed.VideoService
	Prices   medfeed.PriceService
	Renderer medfeed.ArticleRenderer

	Fetcher     medfeed.Fetcher
	Poster      medhttp.FormPoster
	RateLimiter medfeed.DomainLimiter

	Crawler      *crawl.Crawler
	VideoCrawler *crawl.VideoCrawler
	PriceCrawler *crawl.PriceCrawler

	NewExportStore func(dir, name string) medfeed.ExportStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB           string        `help:"Database path" env:"MEDFEED_DB" type:"path"`
	BaseURL      string        `name:"base-url" help:"Base URL for resolving relative article URLs"`
	Delay        time.Duration `default:"1s" help:"Minimum delay between requests to one host (0 disables)"`
	Timeout      time.Duration `default:"10s" help:"Per-request timeout"`
	RandomAgent  bool          `name:"random-agent" help:"Send a random realistic User-Agent"`
	Browser      bool          `help:"Render pages in headless Chrome"`
	Verbose      bool          `short:"v" help:"Log every request"`
	ExcludeImage []string      `name:"exclude-image" help:"Additional regex for non-content image sources (repeatable)"`

	Article    ArticleCmd    `cmd:"" help:"Crawl one or more article pages"`
	Catalog    CatalogCmd    `cmd:"" help:"Crawl every article listed in a paginated catalog"`
	Videos     VideosCmd     `cmd:"" help:"Crawl videos from a column catalog or a single video page"`
	Prices     PricesCmd     `cmd:"" help:"Scrape procedure price listings"`
	PriceStats PriceStatsCmd `cmd:"" name:"price-stats" help:"Show average prices for project names"`
	List       ListCmd       `cmd:"" help:"List ingested articles"`
	Show       ShowCmd       `cmd:"" help:"Render an article as Markdown"`
	Export     ExportCmd     `cmd:"" help:"Export all articles as Markdown files"`
	Delete     DeleteCmd     `cmd:"" help:"Delete an article with its paragraphs and images"`
}

// ArticleCmd is the "article" subcommand.
type ArticleCmd struct {
	URLs []string `arg:"" name:"url" help:"Article URLs"`
}

// CatalogCmd is the "catalog" subcommand.
type CatalogCmd struct {
	URL         string `arg:"" optional:"" default:"https://www.chima.org.cn/Html/News/Columns/34/" help:"Catalog index directory; page N is at <url>N.html"`
	MaxPages    int    `name:"max-pages" help:"Stop after this many catalog pages (0 means all)"`
	Concurrency int    `short:"c" default:"1" help:"Articles ingested in parallel"`
}

// VideosCmd is the "videos" subcommand.
type VideosCmd struct {
	URL      string `arg:"" optional:"" default:"https://www.cma.org.cn/col/col982/index.html" help:"Column index URL (/col/colN/) or a video page URL"`
	MaxPages int    `name:"max-pages" help:"Stop after this many catalog pages (0 means all)"`
}

// PricesCmd is the "prices" subcommand.
type PricesCmd struct {
	Category string `arg:"" enum:"CT,CTA" help:"Price category (CT or CTA)"`
	Template string `arg:"" help:"Listing URL with {} or %d in place of the page number"`
	Pages    int    `default:"3" help:"Number of listing pages"`
}

// PriceStatsCmd is the "price-stats" subcommand.
type PriceStatsCmd struct {
	Category string   `arg:"" enum:"CT,CTA" help:"Price category (CT or CTA)"`
	Targets  []string `arg:"" name:"target" help:"Project name fragments to average"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Limit  int `short:"n" default:"20" help:"Maximum number of articles (0 means all)"`
	Offset int `help:"Number of articles to skip"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Ref string `arg:"" name:"id-or-url" help:"Article ID or source URL"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir  string `arg:"" type:"path" help:"Parent directory"`
	Name string `arg:"" help:"Output directory name"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" name:"id-or-url" help:"Article ID or source URL"`
	Force bool   `help:"Confirm deletion"`
}

// logger returns the configured logger, discarding output when unset.
func (d *Dependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d.Logger
}
