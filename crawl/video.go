package crawl

import (
	"context"
	"errors"

	"github.com/fwojciec/medfeed"
)

// VideoCrawler ingests video detail pages discovered in a catalog.
type VideoCrawler struct {
	Fetcher     medfeed.Fetcher
	Parser      medfeed.VideoParser
	Videos      medfeed.VideoService
	RateLimiter medfeed.DomainLimiter

	// SourceName is recorded as each video's publisher.
	SourceName string
}

// CrawlOne fetches a detail page and stores its video.
func (c *VideoCrawler) CrawlOne(ctx context.Context, pageURL string) (medfeed.IngestStatus, error) {
	return c.crawlEntry(ctx, medfeed.CatalogEntry{URL: pageURL})
}

// CrawlCatalog ingests every video page the paginator discovers in
// source. It returns the first page's *medfeed.CatalogPageError if the
// catalog cannot be read at all.
func (c *VideoCrawler) CrawlCatalog(ctx context.Context, source medfeed.CatalogSource, paginator *Paginator, progress ProgressFunc) (*Result, error) {
	var result Result
	completed := 0
	notify := func(ev ProgressEvent) {
		if progress != nil {
			progress(ev)
		}
	}

	notify(ProgressEvent{Type: ProgressStarted})
	for entry, err := range paginator.Discover(ctx, source) {
		if err != nil {
			var pageErr *medfeed.CatalogPageError
			if errors.As(err, &pageErr) && pageErr.Fatal() {
				return nil, err
			}
			result.PagesFailed++
			notify(ProgressEvent{Type: ProgressPageFailed, Completed: completed, Error: err})
			continue
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		status, err := c.crawlEntry(ctx, entry)
		completed++
		ev := ProgressEvent{Completed: completed, URL: entry.URL}
		switch {
		case err != nil:
			result.Failed++
			ev.Type = ProgressFailed
			ev.Error = err
		case status == medfeed.IngestAlreadyExists:
			result.Existing++
			ev.Type = ProgressExisting
		default:
			result.Created++
			ev.Type = ProgressCompleted
		}
		notify(ev)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notify(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: completed})
	return &result, nil
}

// crawlEntry fetches and parses one detail page. The listing date is
// preferred over the date printed on the page.
func (c *VideoCrawler) crawlEntry(ctx context.Context, entry medfeed.CatalogEntry) (medfeed.IngestStatus, error) {
	if err := waitHost(ctx, c.RateLimiter, entry.URL); err != nil {
		return "", err
	}

	body, err := c.Fetcher.Fetch(ctx, entry.URL)
	if err != nil {
		return "", err
	}

	page, err := c.Parser.ParseVideo(body, entry.URL)
	if err != nil {
		return "", err
	}
	if page.VideoURL == "" {
		return "", medfeed.Errorf(medfeed.EINVALID, "no video source on %s", entry.URL)
	}

	video := &medfeed.Video{
		Title:      page.Title,
		VideoURL:   page.VideoURL,
		PageURL:    entry.URL,
		SourceName: c.SourceName,
	}
	if video.SourceName == "" {
		video.SourceName = medfeed.DefaultVideoSource
	}
	switch {
	case entry.PublishedAt != nil:
		video.PublishedAt = *entry.PublishedAt
	case page.PublishedAt != nil:
		video.PublishedAt = *page.PublishedAt
	}

	return c.Videos.IngestVideo(ctx, video)
}
