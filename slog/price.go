package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/medfeed"
)

// Ensure LoggingPriceService implements medfeed.PriceService.
var _ medfeed.PriceService = (*LoggingPriceService)(nil)

// LoggingPriceService wraps a PriceService, logging batch writes.
type LoggingPriceService struct {
	medfeed.PriceService
	logger *slog.Logger
}

// NewLoggingPriceService creates a new LoggingPriceService.
func NewLoggingPriceService(next medfeed.PriceService, logger *slog.Logger) *LoggingPriceService {
	return &LoggingPriceService{PriceService: next, logger: logger}
}

// CreatePrices delegates to the wrapped service and logs the batch size
// and its category.
func (s *LoggingPriceService) CreatePrices(ctx context.Context, prices []*medfeed.Price) (err error) {
	defer func(begin time.Time) {
		var category string
		if len(prices) > 0 && prices[0] != nil {
			category = prices[0].Category
		}
		log(ctx, s.logger, slog.LevelInfo, err, "create prices",
			"category", category,
			"count", len(prices),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.PriceService.CreatePrices(ctx, prices)
}
