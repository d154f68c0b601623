package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/fwojciec/medfeed"
	"github.com/fwojciec/medfeed/crawl"
	"github.com/fwojciec/medfeed/goquery"
	medslog "github.com/fwojciec/medfeed/slog"
)

// Run executes the article command.
func (c *ArticleCmd) Run(deps *Dependencies) error {
	urls := make([]string, 0, len(c.URLs))
	for _, raw := range c.URLs {
		u, err := resolveArticleURL(deps.BaseURL, raw)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", medfeed.ErrorMessage(err))
			return err
		}
		urls = append(urls, u)
	}

	result, err := deps.Crawler.CrawlURLs(deps.Ctx, urls, printProgress(deps.Stdout))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintln(deps.Stdout, crawl.FormatResult(result))
	return nil
}

// Run executes the catalog command.
func (c *CatalogCmd) Run(deps *Dependencies) error {
	base := c.URL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	source := medslog.NewLoggingCatalogSource(&crawl.HTMLCatalog{
		Fetcher:     deps.Fetcher,
		Extractor:   goquery.NewColumnListExtractor(),
		RateLimiter: deps.RateLimiter,
		BaseURL:     base,
	}, deps.logger())

	if c.Concurrency > 0 {
		deps.Crawler.Concurrency = c.Concurrency
	}

	fmt.Fprintf(deps.Stdout, "Crawling catalog %s\n", base)
	result, err := deps.Crawler.CrawlCatalog(deps.Ctx, source, &crawl.Paginator{MaxPages: c.MaxPages}, printProgress(deps.Stdout))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintln(deps.Stdout, crawl.FormatResult(result))
	return nil
}

// resolveArticleURL makes raw absolute, resolving it against base when
// it is relative.
func resolveArticleURL(base, raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", medfeed.Errorf(medfeed.EINVALID, "invalid URL %q", raw)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	if base == "" {
		return "", medfeed.Errorf(medfeed.EINVALID, "relative URL %q needs --base-url", raw)
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return "", medfeed.Errorf(medfeed.EINVALID, "invalid base URL %q", base)
	}
	return b.ResolveReference(u).String(), nil
}

// printProgress writes one outcome line per crawled item.
func printProgress(w io.Writer) crawl.ProgressFunc {
	return func(ev crawl.ProgressEvent) {
		if line := crawl.FormatEvent(ev); line != "" {
			fmt.Fprintln(w, line)
		}
	}
}
