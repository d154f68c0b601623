package medfeed

import (
	"context"
	"time"
)

// PlaceholderContent marks a paragraph that stands for an image at its
// position in the reading flow.
const PlaceholderContent = "[IMAGE_PLACEHOLDER]"

// UntitledArticle is used when a page carries no recognizable title.
const UntitledArticle = "无标题"

// Article represents an ingested article. SourceURL is its identity.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	SourceURL   string    `json:"sourceUrl"`
	ContentHash string    `json:"contentHash"`
	CreatedAt   time.Time `json:"createdAt"`
	FetchedAt   time.Time `json:"fetchedAt"`

	Paragraphs []*Paragraph `json:"paragraphs,omitempty"`
	Images     []*Image     `json:"images,omitempty"`
}

// Paragraph is one unit of article text, or a placeholder for an image.
type Paragraph struct {
	ID        string `json:"id"`
	ArticleID string `json:"articleId"`
	Content   string `json:"content"`
	Order     int    `json:"order"`

	// ImageRef is the position of the referenced image within the
	// article, or zero when the paragraph references no image.
	ImageRef int `json:"imageRef,omitempty"`

	// ImageID is the stored ID of the referenced image, set on read.
	ImageID string `json:"imageId,omitempty"`
}

// IsPlaceholder reports whether the paragraph marks an image slot.
func (p *Paragraph) IsPlaceholder() bool {
	return p.Content == PlaceholderContent
}

// Image is a content image belonging to one article.
type Image struct {
	ID         string `json:"id"`
	ArticleID  string `json:"articleId"`
	URL        string `json:"url"`
	Identifier string `json:"identifier"`
	Position   int    `json:"position"`
}

// FigureLink connects a narrative paragraph to the image it mentions.
type FigureLink struct {
	ParagraphOrder int `json:"paragraphOrder"`
	ImagePosition  int `json:"imagePosition"`
}

// ArticleDraft is a parsed article ready for ingestion.
type ArticleDraft struct {
	SourceURL  string
	Title      string
	CreatedAt  time.Time
	Paragraphs []*Paragraph
	Images     []*Image
	Links      []FigureLink
}

// Validate returns an error if the draft contains invalid fields.
func (d *ArticleDraft) Validate() error {
	if d.SourceURL == "" {
		return Errorf(EINVALID, "article source URL required")
	}
	if d.Title == "" {
		return Errorf(EINVALID, "article title required")
	}
	return nil
}

// IngestStatus is the outcome of ingesting one article.
type IngestStatus string

// IngestStatus values.
const (
	IngestCreated       IngestStatus = "created"
	IngestAlreadyExists IngestStatus = "exists"
)

// IngestResult reports what IngestArticle did.
type IngestResult struct {
	Status  IngestStatus
	Article *Article
}

// ArticleService represents a service for managing articles.
type ArticleService interface {
	// IngestArticle stores the draft with all its paragraphs, images and
	// figure links in one transaction. If an article with the same source
	// URL exists nothing is written and IngestAlreadyExists is returned.
	IngestArticle(ctx context.Context, draft *ArticleDraft) (*IngestResult, error)

	// FindArticleByID retrieves an article with its paragraphs and images.
	// Returns ENOTFOUND if article does not exist.
	FindArticleByID(ctx context.Context, id string) (*Article, error)

	// FindArticleBySourceURL retrieves an article by its source URL
	// without paragraphs and images.
	// Returns ENOTFOUND if article does not exist.
	FindArticleBySourceURL(ctx context.Context, sourceURL string) (*Article, error)

	// FindArticles retrieves articles matching the filter, newest first.
	// Paragraphs and images are not loaded.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)

	// FindParagraphs retrieves an article's paragraphs in order.
	FindParagraphs(ctx context.Context, articleID string) ([]*Paragraph, error)

	// FindImages retrieves an article's images by position.
	FindImages(ctx context.Context, articleID string) ([]*Image, error)

	// DeleteArticle permanently removes an article with its paragraphs and images.
	// Returns ENOTFOUND if article does not exist.
	DeleteArticle(ctx context.Context, id string) error
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	ID        *string `json:"id"`
	SourceURL *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ArticleParser turns a fetched article page into a draft.
type ArticleParser interface {
	// Parse extracts title, publish date and reconstructed content.
	// Missing structural elements fall back to defaults rather than
	// failing.
	Parse(html []byte, sourceURL string) (*ArticleDraft, error)
}

// PageMetadata holds metadata recovered from a page by heuristics.
type PageMetadata struct {
	Title       string
	PublishedAt time.Time
}

// MetadataExtractor recovers page metadata when the known layout is absent.
type MetadataExtractor interface {
	ExtractMetadata(html []byte, sourceURL string) (*PageMetadata, error)
}

// MetadataChain consults each extractor in order until both title and
// publish date are known. Fields found earlier take precedence. An error
// is returned only when every extractor fails.
type MetadataChain []MetadataExtractor

// ExtractMetadata implements MetadataExtractor.
func (c MetadataChain) ExtractMetadata(html []byte, sourceURL string) (*PageMetadata, error) {
	var (
		out     PageMetadata
		lastErr error
		ok      bool
	)
	for _, e := range c {
		meta, err := e.ExtractMetadata(html, sourceURL)
		if err != nil {
			lastErr = err
			continue
		}
		ok = true
		if out.Title == "" {
			out.Title = meta.Title
		}
		if out.PublishedAt.IsZero() {
			out.PublishedAt = meta.PublishedAt
		}
		if out.Title != "" && !out.PublishedAt.IsZero() {
			break
		}
	}
	if !ok && lastErr != nil {
		return nil, lastErr
	}
	return &out, nil
}
