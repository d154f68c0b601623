package mock

import (
	"context"

	"github.com/fwojciec/medfeed"
)

// Compile-time interface verification.
var (
	_ medfeed.PriceService   = (*PriceService)(nil)
	_ medfeed.PriceExtractor = (*PriceExtractor)(nil)
)

// PriceService is a mock implementation of medfeed.PriceService.
type PriceService struct {
	CreatePricesFn func(ctx context.Context, prices []*medfeed.Price) error
	FindPricesFn   func(ctx context.Context, filter medfeed.PriceFilter) ([]*medfeed.Price, error)
}

func (s *PriceService) CreatePrices(ctx context.Context, prices []*medfeed.Price) error {
	return s.CreatePricesFn(ctx, prices)
}

func (s *PriceService) FindPrices(ctx context.Context, filter medfeed.PriceFilter) ([]*medfeed.Price, error) {
	return s.FindPricesFn(ctx, filter)
}

// PriceExtractor is a mock implementation of medfeed.PriceExtractor.
type PriceExtractor struct {
	ExtractPricesFn func(html []byte) ([]medfeed.PriceRow, error)
}

func (e *PriceExtractor) ExtractPrices(html []byte) ([]medfeed.PriceRow, error) {
	return e.ExtractPricesFn(html)
}
