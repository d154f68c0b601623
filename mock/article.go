package mock

import (
	"context"

	"github.com/fwojciec/medfeed"
)

// Compile-time interface verification.
var (
	_ medfeed.ArticleService    = (*ArticleService)(nil)
	_ medfeed.ArticleParser     = (*ArticleParser)(nil)
	_ medfeed.MetadataExtractor = (*MetadataExtractor)(nil)
)

// ArticleService is a mock implementation of medfeed.ArticleService.
type ArticleService struct {
	IngestArticleFn          func(ctx context.Context, draft *medfeed.ArticleDraft) (*medfeed.IngestResult, error)
	FindArticleByIDFn        func(ctx context.Context, id string) (*medfeed.Article, error)
	FindArticleBySourceURLFn func(ctx context.Context, sourceURL string) (*medfeed.Article, error)
	FindArticlesFn           func(ctx context.Context, filter medfeed.ArticleFilter) ([]*medfeed.Article, error)
	FindParagraphsFn         func(ctx context.Context, articleID string) ([]*medfeed.Paragraph, error)
	FindImagesFn             func(ctx context.Context, articleID string) ([]*medfeed.Image, error)
	DeleteArticleFn          func(ctx context.Context, id string) error
}

func (s *ArticleService) IngestArticle(ctx context.Context, draft *medfeed.ArticleDraft) (*medfeed.IngestResult, error) {
	return s.IngestArticleFn(ctx, draft)
}

func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*medfeed.Article, error) {
	return s.FindArticleByIDFn(ctx, id)
}

func (s *ArticleService) FindArticleBySourceURL(ctx context.Context, sourceURL string) (*medfeed.Article, error) {
	return s.FindArticleBySourceURLFn(ctx, sourceURL)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter medfeed.ArticleFilter) ([]*medfeed.Article, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) FindParagraphs(ctx context.Context, articleID string) ([]*medfeed.Paragraph, error) {
	return s.FindParagraphsFn(ctx, articleID)
}

func (s *ArticleService) FindImages(ctx context.Context, articleID string) ([]*medfeed.Image, error) {
	return s.FindImagesFn(ctx, articleID)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	return s.DeleteArticleFn(ctx, id)
}

// ArticleParser is a mock implementation of medfeed.ArticleParser.
type ArticleParser struct {
	ParseFn func(html []byte, sourceURL string) (*medfeed.ArticleDraft, error)
}

func (p *ArticleParser) Parse(html []byte, sourceURL string) (*medfeed.ArticleDraft, error) {
	return p.ParseFn(html, sourceURL)
}

// MetadataExtractor is a mock implementation of medfeed.MetadataExtractor.
type MetadataExtractor struct {
	ExtractMetadataFn func(html []byte, sourceURL string) (*medfeed.PageMetadata, error)
}

func (e *MetadataExtractor) ExtractMetadata(html []byte, sourceURL string) (*medfeed.PageMetadata, error) {
	return e.ExtractMetadataFn(html, sourceURL)
}
