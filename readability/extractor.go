// Package readability recovers page metadata with go-readability's
// heuristics. It complements the trafilatura extractor for pages whose
// title or date only readability can find.
package readability

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/medfeed"
	"github.com/go-shiori/go-readability"
)

// Ensure MetadataExtractor implements medfeed.MetadataExtractor at compile time.
var _ medfeed.MetadataExtractor = (*MetadataExtractor)(nil)

// MetadataExtractor wraps go-readability to recover title and publish date.
type MetadataExtractor struct{}

// NewMetadataExtractor creates a new MetadataExtractor.
func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{}
}

// ExtractMetadata processes raw HTML and returns its title and publish
// date. Unknown fields are left zero.
func (e *MetadataExtractor) ExtractMetadata(rawHTML []byte, sourceURL string) (*medfeed.PageMetadata, error) {
	if len(bytes.TrimSpace(rawHTML)) == 0 {
		return nil, medfeed.Errorf(medfeed.EINVALID, "empty HTML input")
	}

	var pageURL *url.URL
	if u, err := url.Parse(sourceURL); err == nil && u.Host != "" {
		pageURL = u
	}

	article, err := readability.FromReader(bytes.NewReader(rawHTML), pageURL)
	if err != nil {
		return nil, medfeed.Errorf(medfeed.EINVALID, "extracting metadata: %v", err)
	}

	meta := &medfeed.PageMetadata{Title: strings.TrimSpace(article.Title)}
	if article.PublishedTime != nil {
		meta.PublishedAt = *article.PublishedTime
	}
	return meta, nil
}
