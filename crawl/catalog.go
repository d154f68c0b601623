package crawl

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fwojciec/medfeed"
)

var _ medfeed.CatalogSource = (*HTMLCatalog)(nil)

// HTMLCatalog reads a catalog published as numbered HTML index pages,
// page n living at BaseURL + n + ".html". It reports no total, so the
// paginator stops at the first empty page.
type HTMLCatalog struct {
	Fetcher     medfeed.Fetcher
	Extractor   medfeed.CatalogExtractor
	RateLimiter medfeed.DomainLimiter

	// BaseURL is the index directory, including its trailing slash.
	BaseURL string
}

// PageURL returns the address of a catalog page.
func (c *HTMLCatalog) PageURL(page int) string {
	return c.BaseURL + strconv.Itoa(page) + ".html"
}

// FetchCatalogPage fetches one index page and extracts its links.
func (c *HTMLCatalog) FetchCatalogPage(ctx context.Context, page int) (*medfeed.CatalogPage, error) {
	pageURL := c.PageURL(page)
	if err := waitHost(ctx, c.RateLimiter, pageURL); err != nil {
		return nil, err
	}

	body, err := c.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	entries, err := c.Extractor.ExtractEntries(body, c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("extracting links from %s: %w", pageURL, err)
	}
	return &medfeed.CatalogPage{Entries: entries}, nil
}
