package medfeed

import (
	"context"
	"fmt"
	"time"
)

// CatalogEntry is a content link discovered on a catalog index page.
type CatalogEntry struct {
	URL string

	// PublishedAt is the date shown in the listing, if any. It is used
	// when the detail page carries no date of its own.
	PublishedAt *time.Time
}

// CatalogPage is one fetched page of a catalog.
type CatalogPage struct {
	Entries []CatalogEntry

	// TotalPages is the page count reported by the source, or zero when
	// the source does not report one.
	TotalPages int
}

// CatalogSource fetches numbered catalog pages. Pages are 1-based.
type CatalogSource interface {
	FetchCatalogPage(ctx context.Context, page int) (*CatalogPage, error)
}

// CatalogExtractor extracts catalog entries from an index page fragment.
// Relative links are resolved against baseURL.
type CatalogExtractor interface {
	ExtractEntries(html []byte, baseURL string) ([]CatalogEntry, error)
}

// CatalogPageError reports a catalog page that could not be fetched or
// parsed. A failure on page 1 is fatal for the run.
type CatalogPageError struct {
	Page int
	Err  error
}

// Error implements the error interface.
func (e *CatalogPageError) Error() string {
	return fmt.Sprintf("catalog page %d: %v", e.Page, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CatalogPageError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the failure prevents any discovery.
func (e *CatalogPageError) Fatal() bool {
	return e.Page <= 1
}
