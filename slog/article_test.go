package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/medfeed"
	"github.com/fwojciec/medfeed/mock"
	medslog "github.com/fwojciec/medfeed/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingArticleService_IngestArticle(t *testing.T) {
	t.Parallel()

	draft := &medfeed.ArticleDraft{
		SourceURL:  "https://example.com/a.html",
		Title:      "T",
		Paragraphs: []*medfeed.Paragraph{{Content: "p1", Order: 1}, {Content: medfeed.PlaceholderContent, Order: 2, ImageRef: 1}},
		Images:     []*medfeed.Image{{URL: "https://example.com/1.jpg", Position: 1}},
	}

	t.Run("logs status and counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ArticleService{
			IngestArticleFn: func(context.Context, *medfeed.ArticleDraft) (*medfeed.IngestResult, error) {
				return &medfeed.IngestResult{Status: medfeed.IngestCreated, Article: &medfeed.Article{ID: "abc"}}, nil
			},
		}

		svc := medslog.NewLoggingArticleService(inner, debugLogger(&buf))
		res, err := svc.IngestArticle(context.Background(), draft)

		require.NoError(t, err)
		assert.Equal(t, medfeed.IngestCreated, res.Status)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "msg=\"ingest article\"")
		assert.Contains(t, output, "url=https://example.com/a.html")
		assert.Contains(t, output, "status=created")
		assert.Contains(t, output, "id=abc")
		assert.Contains(t, output, "paragraphs=2")
		assert.Contains(t, output, "images=1")
	})

	t.Run("logs errors at warn level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ArticleService{
			IngestArticleFn: func(context.Context, *medfeed.ArticleDraft) (*medfeed.IngestResult, error) {
				return nil, errors.New("database is locked")
			},
		}

		svc := medslog.NewLoggingArticleService(inner, debugLogger(&buf))
		_, err := svc.IngestArticle(context.Background(), draft)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "err=\"database is locked\"")
	})

	t.Run("logs a nil draft without panicking", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ArticleService{
			IngestArticleFn: func(context.Context, *medfeed.ArticleDraft) (*medfeed.IngestResult, error) {
				return nil, medfeed.Errorf(medfeed.EINVALID, "article draft required")
			},
		}

		svc := medslog.NewLoggingArticleService(inner, debugLogger(&buf))
		_, err := svc.IngestArticle(context.Background(), nil)

		assert.Equal(t, medfeed.EINVALID, medfeed.ErrorCode(err))
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "paragraphs=0")
	})

	t.Run("passes reads through without logging", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ArticleService{
			FindArticleByIDFn: func(_ context.Context, id string) (*medfeed.Article, error) {
				return &medfeed.Article{ID: id}, nil
			},
		}

		svc := medslog.NewLoggingArticleService(inner, debugLogger(&buf))
		a, err := svc.FindArticleByID(context.Background(), "abc")

		require.NoError(t, err)
		assert.Equal(t, "abc", a.ID)
		assert.Empty(t, buf.String())
	})
}

func TestLoggingArticleService_DeleteArticle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.ArticleService{
		DeleteArticleFn: func(context.Context, string) error { return nil },
	}

	svc := medslog.NewLoggingArticleService(inner, debugLogger(&buf))

	require.NoError(t, svc.DeleteArticle(context.Background(), "abc"))
	assert.Contains(t, buf.String(), "msg=\"delete article\"")
	assert.Contains(t, buf.String(), "id=abc")
}
