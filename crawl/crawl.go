// Package crawl orchestrates medfeed crawls. It coordinates catalog
// pagination, fetching, parsing and persistence of articles, videos and
// price listings.
package crawl

import (
	"context"
	"errors"
	"iter"
	"net/url"
	"sync"

	"github.com/fwojciec/medfeed"
	"golang.org/x/sync/errgroup"
)

// Crawler ingests article pages.
type Crawler struct {
	Fetcher     medfeed.Fetcher
	Parser      medfeed.ArticleParser
	Articles    medfeed.ArticleService
	RateLimiter medfeed.DomainLimiter

	// Concurrency is the number of articles ingested in parallel.
	// Values below 2 crawl sequentially.
	Concurrency int
}

// Result holds the outcome of a crawl operation.
type Result struct {
	Created     int
	Existing    int
	Failed      int
	PagesFailed int
}

// CrawlOne fetches, parses and ingests a single article. An article
// whose source URL is already stored is reported as existing without
// being fetched again.
func (c *Crawler) CrawlOne(ctx context.Context, rawURL string) (*medfeed.IngestResult, error) {
	return c.crawlEntry(ctx, medfeed.CatalogEntry{URL: rawURL})
}

// CrawlURLs ingests each URL in turn. Per-URL failures are counted and
// reported through progress; they never abort the run.
func (c *Crawler) CrawlURLs(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	entries := func(yield func(medfeed.CatalogEntry, error) bool) {
		for _, u := range urls {
			if !yield(medfeed.CatalogEntry{URL: u}, nil) {
				return
			}
		}
	}
	return c.run(ctx, entries, len(urls), progress)
}

// CrawlCatalog ingests every article the paginator discovers in source.
// It returns the first page's *medfeed.CatalogPageError if the catalog
// cannot be read at all.
func (c *Crawler) CrawlCatalog(ctx context.Context, source medfeed.CatalogSource, paginator *Paginator, progress ProgressFunc) (*Result, error) {
	return c.run(ctx, paginator.Discover(ctx, source), 0, progress)
}

// crawlEntry runs the article pipeline for one catalog entry. The
// listing date fills in for a detail page without one.
func (c *Crawler) crawlEntry(ctx context.Context, entry medfeed.CatalogEntry) (*medfeed.IngestResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	existing, err := c.Articles.FindArticleBySourceURL(ctx, entry.URL)
	if err == nil {
		return &medfeed.IngestResult{Status: medfeed.IngestAlreadyExists, Article: existing}, nil
	}
	if medfeed.ErrorCode(err) != medfeed.ENOTFOUND {
		return nil, err
	}

	if err := waitHost(ctx, c.RateLimiter, entry.URL); err != nil {
		return nil, err
	}

	body, err := c.Fetcher.Fetch(ctx, entry.URL)
	if err != nil {
		return nil, err
	}

	draft, err := c.Parser.Parse(body, entry.URL)
	if err != nil {
		return nil, err
	}
	if draft.CreatedAt.IsZero() && entry.PublishedAt != nil {
		draft.CreatedAt = *entry.PublishedAt
	}

	return c.Articles.IngestArticle(ctx, draft)
}

// run drains entries through a bounded worker group. A fatal catalog
// error stops the run and is returned once in-flight work has finished.
func (c *Crawler) run(ctx context.Context, entries iter.Seq2[medfeed.CatalogEntry, error], total int, progress ProgressFunc) (*Result, error) {
	var (
		mu        sync.Mutex
		result    Result
		completed int
	)
	notify := func(ev ProgressEvent) {
		if progress != nil {
			progress(ev)
		}
	}

	notify(ProgressEvent{Type: ProgressStarted, Total: total})

	var g errgroup.Group
	g.SetLimit(max(c.Concurrency, 1))

	var fatal error
	for entry, err := range entries {
		if err != nil {
			var pageErr *medfeed.CatalogPageError
			if errors.As(err, &pageErr) && pageErr.Fatal() {
				fatal = err
				break
			}
			mu.Lock()
			result.PagesFailed++
			notify(ProgressEvent{Type: ProgressPageFailed, Completed: completed, Total: total, Error: err})
			mu.Unlock()
			continue
		}
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			res, err := c.crawlEntry(ctx, entry)

			mu.Lock()
			defer mu.Unlock()
			completed++
			ev := ProgressEvent{Completed: completed, Total: total, URL: entry.URL}
			switch {
			case err != nil:
				result.Failed++
				ev.Type = ProgressFailed
				ev.Error = err
			case res.Status == medfeed.IngestAlreadyExists:
				result.Existing++
				ev.Type = ProgressExisting
			default:
				result.Created++
				ev.Type = ProgressCompleted
				if res.Article != nil {
					ev.Title = res.Article.Title
				}
			}
			notify(ev)
			return nil
		})
	}
	_ = g.Wait()

	if fatal != nil {
		return nil, fatal
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notify(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: completed})
	return &result, nil
}

// waitHost applies the politeness delay for rawURL's host. A nil limiter
// never waits.
func waitHost(ctx context.Context, limiter medfeed.DomainLimiter, rawURL string) error {
	if limiter == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return medfeed.Errorf(medfeed.EINVALID, "invalid URL: %q", rawURL)
	}
	return limiter.Wait(ctx, u.Host)
}
