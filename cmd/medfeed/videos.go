package main

import (
	"fmt"
	"net/url"

	"github.com/fwojciec/medfeed"
	"github.com/fwojciec/medfeed/crawl"
	"github.com/fwojciec/medfeed/goquery"
	medhttp "github.com/fwojciec/medfeed/http"
	medslog "github.com/fwojciec/medfeed/slog"
)

// Run executes the videos command. A column URL crawls the column's
// catalog; any other URL is treated as a single video page.
func (c *VideosCmd) Run(deps *Dependencies) error {
	if !medhttp.IsColumnURL(c.URL) {
		status, err := deps.VideoCrawler.CrawlOne(deps.Ctx, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		if status == medfeed.IngestAlreadyExists {
			fmt.Fprintf(deps.Stdout, "Video already exists: %s\n", c.URL)
			return nil
		}
		fmt.Fprintf(deps.Stdout, "Saved video from %s\n", c.URL)
		return nil
	}

	catalog, err := medhttp.NewDataProxyCatalog(deps.Poster, goquery.NewRecordListExtractor(), c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", medfeed.ErrorMessage(err))
		return err
	}
	source := medslog.NewLoggingCatalogSource(catalog, deps.logger())

	fmt.Fprintf(deps.Stdout, "Crawling video column %s\n", c.URL)
	result, err := deps.VideoCrawler.CrawlCatalog(deps.Ctx, source, &crawl.Paginator{MaxPages: c.MaxPages}, printProgress(deps.Stdout))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintln(deps.Stdout, crawl.FormatResult(result))
	return nil
}

// originOf returns the scheme and host of rawURL, or "" when it has none.
func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
