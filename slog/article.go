package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/medfeed"
)

// Ensure LoggingArticleService implements medfeed.ArticleService.
var _ medfeed.ArticleService = (*LoggingArticleService)(nil)

// LoggingArticleService wraps an ArticleService, logging writes.
// Reads are passed through.
type LoggingArticleService struct {
	medfeed.ArticleService
	logger *slog.Logger
}

// NewLoggingArticleService creates a new LoggingArticleService.
func NewLoggingArticleService(next medfeed.ArticleService, logger *slog.Logger) *LoggingArticleService {
	return &LoggingArticleService{ArticleService: next, logger: logger}
}

// IngestArticle delegates to the wrapped service and logs the outcome
// with paragraph, image and figure link counts.
func (s *LoggingArticleService) IngestArticle(ctx context.Context, draft *medfeed.ArticleDraft) (res *medfeed.IngestResult, err error) {
	defer func(begin time.Time) {
		var status medfeed.IngestStatus
		var id string
		if res != nil {
			status = res.Status
			if res.Article != nil {
				id = res.Article.ID
			}
		}
		var url string
		var paragraphs, images, links int
		if draft != nil {
			url = draft.SourceURL
			paragraphs, images, links = len(draft.Paragraphs), len(draft.Images), len(draft.Links)
		}
		log(ctx, s.logger, slog.LevelInfo, err, "ingest article",
			"url", url,
			"status", status,
			"id", id,
			"paragraphs", paragraphs,
			"images", images,
			"links", links,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.ArticleService.IngestArticle(ctx, draft)
}

// DeleteArticle delegates to the wrapped service and logs the deletion.
func (s *LoggingArticleService) DeleteArticle(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		log(ctx, s.logger, slog.LevelInfo, err, "delete article",
			"id", id,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.ArticleService.DeleteArticle(ctx, id)
}
