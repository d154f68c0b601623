package goquery

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/medfeed"
)

var _ medfeed.ArticleParser = (*ArticleParser)(nil)

// Selectors for the supported article layout.
const (
	articleTitleSelector = "h1.article_title"
	articleMetaSelector  = "div.sub_tit span"
	publishedLabel       = "发布时间："
)

// articleBodySelectors are tried in order; the whole document is used
// when none matches.
var articleBodySelectors = []string{"div#zoom", "div.article_cont"}

// ArticleParser parses article pages with a title heading, a metadata
// block carrying a "发布时间：" label, and a body container.
type ArticleParser struct {
	// Filter rejects non-content images. Nil accepts every image.
	Filter *medfeed.ImageFilter

	// BaseURL resolves image sources. Defaults to the article URL.
	BaseURL string

	// Fallback recovers title and date when the layout is absent.
	Fallback medfeed.MetadataExtractor

	// Location is the zone of published dates. Defaults to ChinaTime.
	Location *time.Location
}

// NewArticleParser creates an ArticleParser with the given image filter.
func NewArticleParser(filter *medfeed.ImageFilter) *ArticleParser {
	return &ArticleParser{Filter: filter}
}

// Parse extracts the title, publish date and reconstructed content of
// an article page. A missing title becomes medfeed.UntitledArticle; a
// missing date leaves CreatedAt zero for the caller to fill in; a
// missing body container makes the whole document the body.
func (p *ArticleParser) Parse(html []byte, sourceURL string) (*medfeed.ArticleDraft, error) {
	baseURL := p.BaseURL
	if baseURL == "" {
		baseURL = sourceURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, medfeed.Errorf(medfeed.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, medfeed.Errorf(medfeed.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find(articleTitleSelector).First().Text())
	createdAt, hasDate := p.publishedAt(doc)

	if (title == "" || !hasDate) && p.Fallback != nil {
		// Heuristic metadata is best effort; its failure leaves the defaults.
		if meta, err := p.Fallback.ExtractMetadata(html, sourceURL); err == nil && meta != nil {
			if title == "" {
				title = strings.TrimSpace(meta.Title)
			}
			if !hasDate && !meta.PublishedAt.IsZero() {
				createdAt = meta.PublishedAt
			}
		}
	}
	if title == "" {
		title = medfeed.UntitledArticle
	}

	tree := ContentTree(articleBody(doc).Get(0))
	r := medfeed.Reconstruct(tree.Children, p.Filter, func(src string) string {
		return resolveSrc(base, src)
	})

	return &medfeed.ArticleDraft{
		SourceURL:  sourceURL,
		Title:      title,
		CreatedAt:  createdAt,
		Paragraphs: r.Paragraphs,
		Images:     r.Images,
		Links:      r.Links,
	}, nil
}

func (p *ArticleParser) publishedAt(doc *goquery.Document) (time.Time, bool) {
	var (
		t     time.Time
		found bool
	)
	doc.Find(articleMetaSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		idx := strings.LastIndex(text, publishedLabel)
		if idx < 0 {
			return true
		}
		t, found = parseDate(text[idx+len(publishedLabel):], p.Location)
		return false
	})
	return t, found
}

func articleBody(doc *goquery.Document) *goquery.Selection {
	for _, sel := range articleBodySelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	if s := doc.Find("body").First(); s.Length() > 0 {
		return s
	}
	return doc.Selection
}
