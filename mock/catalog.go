package mock

import (
	"context"

	"github.com/fwojciec/medfeed"
)

// Compile-time interface verification.
var (
	_ medfeed.CatalogSource    = (*CatalogSource)(nil)
	_ medfeed.CatalogExtractor = (*CatalogExtractor)(nil)
)

// CatalogSource is a mock implementation of medfeed.CatalogSource.
type CatalogSource struct {
	FetchCatalogPageFn func(ctx context.Context, page int) (*medfeed.CatalogPage, error)
}

func (s *CatalogSource) FetchCatalogPage(ctx context.Context, page int) (*medfeed.CatalogPage, error) {
	return s.FetchCatalogPageFn(ctx, page)
}

// CatalogExtractor is a mock implementation of medfeed.CatalogExtractor.
type CatalogExtractor struct {
	ExtractEntriesFn func(html []byte, baseURL string) ([]medfeed.CatalogEntry, error)
}

func (e *CatalogExtractor) ExtractEntries(html []byte, baseURL string) ([]medfeed.CatalogEntry, error) {
	return e.ExtractEntriesFn(html, baseURL)
}
