package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/medfeed"
	main "github.com/fwojciec/medfeed/cmd/medfeed"
	"github.com/fwojciec/medfeed/crawl"
	"github.com/fwojciec/medfeed/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// articleCrawler ingests every URL as a new article except those in
// existing, and fails URLs in broken.
func articleCrawler(existing, broken map[string]bool, ingested *[]string) *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) ([]byte, error) {
				if broken[url] {
					return nil, &medfeed.TransportError{URL: url, Err: errors.New("connection refused")}
				}
				return []byte("<html></html>"), nil
			},
		},
		Parser: &mock.ArticleParser{
			ParseFn: func(_ []byte, sourceURL string) (*medfeed.ArticleDraft, error) {
				return &medfeed.ArticleDraft{SourceURL: sourceURL, Title: "Article " + sourceURL}, nil
			},
		},
		Articles: &mock.ArticleService{
			FindArticleBySourceURLFn: func(_ context.Context, sourceURL string) (*medfeed.Article, error) {
				if existing[sourceURL] {
					return &medfeed.Article{ID: "old", SourceURL: sourceURL}, nil
				}
				return nil, medfeed.Errorf(medfeed.ENOTFOUND, "article not found")
			},
			IngestArticleFn: func(_ context.Context, draft *medfeed.ArticleDraft) (*medfeed.IngestResult, error) {
				*ingested = append(*ingested, draft.SourceURL)
				return &medfeed.IngestResult{
					Status:  medfeed.IngestCreated,
					Article: &medfeed.Article{ID: "new", Title: draft.Title, SourceURL: draft.SourceURL},
				}, nil
			},
		},
	}
}

func TestArticleCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("crawls each URL and prints a summary", func(t *testing.T) {
		t.Parallel()

		var ingested []string
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Crawler: articleCrawler(
				map[string]bool{"https://example.com/a/2.html": true},
				map[string]bool{"https://example.com/a/3.html": true},
				&ingested,
			),
		}

		err := (&main.ArticleCmd{URLs: []string{
			"https://example.com/a/1.html",
			"https://example.com/a/2.html",
			"https://example.com/a/3.html",
		}}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a/1.html"}, ingested)
		output := stdout.String()
		assert.Contains(t, output, "created Article https://example.com/a/1.html")
		assert.Contains(t, output, "exists https://example.com/a/2.html")
		assert.Contains(t, output, "failed https://example.com/a/3.html")
		assert.Contains(t, output, "1 created, 1 existing, 1 failed")
	})

	t.Run("resolves relative URLs against the base URL", func(t *testing.T) {
		t.Parallel()

		var ingested []string
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			BaseURL: "https://www.chima.org.cn/",
			Crawler: articleCrawler(nil, nil, &ingested),
		}

		err := (&main.ArticleCmd{URLs: []string{"Html/News/Articles/9.html"}}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://www.chima.org.cn/Html/News/Articles/9.html"}, ingested)
	})

	t.Run("rejects relative URLs without a base URL", func(t *testing.T) {
		t.Parallel()

		var ingested []string
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Crawler: articleCrawler(nil, nil, &ingested),
		}

		err := (&main.ArticleCmd{URLs: []string{"/a/1.html"}}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, medfeed.EINVALID, medfeed.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--base-url")
		assert.Empty(t, ingested)
	})
}

func TestCatalogCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("fails when the first catalog page is unreachable", func(t *testing.T) {
		t.Parallel()

		var ingested []string
		crawler := articleCrawler(nil, map[string]bool{"https://example.com/news/1.html": true}, &ingested)
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Fetcher: crawler.Fetcher,
			Crawler: crawler,
		}

		err := (&main.CatalogCmd{URL: "https://example.com/news"}).Run(deps)

		require.Error(t, err)
		var pageErr *medfeed.CatalogPageError
		require.ErrorAs(t, err, &pageErr)
		assert.Equal(t, 1, pageErr.Page)
		assert.Contains(t, stderr.String(), "error:")
		assert.Empty(t, ingested)
	})

	t.Run("applies concurrency to the crawler", func(t *testing.T) {
		t.Parallel()

		var ingested []string
		crawler := articleCrawler(nil, nil, &ingested)
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Fetcher: crawler.Fetcher,
			Crawler: crawler,
		}

		err := (&main.CatalogCmd{URL: "https://example.com/news/", Concurrency: 4}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 4, crawler.Concurrency)
		assert.Contains(t, stdout.String(), "Crawling catalog https://example.com/news/")
		assert.Contains(t, stdout.String(), "0 created, 0 existing, 0 failed")
	})
}
