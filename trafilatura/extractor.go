// Package trafilatura recovers page metadata with go-trafilatura's
// heuristics for pages that do not follow the known article layout.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/medfeed"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure MetadataExtractor implements medfeed.MetadataExtractor at compile time.
var _ medfeed.MetadataExtractor = (*MetadataExtractor)(nil)

// MetadataExtractor wraps go-trafilatura to recover title and publish date.
type MetadataExtractor struct{}

// NewMetadataExtractor creates a new MetadataExtractor.
func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{}
}

// ExtractMetadata processes raw HTML and returns its title and publish
// date as far as they can be determined. Unknown fields are left zero.
func (e *MetadataExtractor) ExtractMetadata(rawHTML []byte, sourceURL string) (*medfeed.PageMetadata, error) {
	if len(bytes.TrimSpace(rawHTML)) == 0 {
		return nil, medfeed.Errorf(medfeed.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(sourceURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(bytes.NewReader(rawHTML), opts)
	if err != nil {
		return nil, medfeed.Errorf(medfeed.EINVALID, "extracting metadata: %v", err)
	}

	return &medfeed.PageMetadata{
		Title:       strings.TrimSpace(result.Metadata.Title),
		PublishedAt: result.Metadata.Date,
	}, nil
}
