package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/medfeed"
)

// Ensure LoggingCatalogSource implements medfeed.CatalogSource.
var _ medfeed.CatalogSource = (*LoggingCatalogSource)(nil)

// LoggingCatalogSource wraps a CatalogSource with logging.
type LoggingCatalogSource struct {
	next   medfeed.CatalogSource
	logger *slog.Logger
}

// NewLoggingCatalogSource creates a new LoggingCatalogSource.
func NewLoggingCatalogSource(next medfeed.CatalogSource, logger *slog.Logger) *LoggingCatalogSource {
	return &LoggingCatalogSource{next: next, logger: logger}
}

// FetchCatalogPage delegates to the wrapped source and logs the page
// number, entry count and reported total.
func (s *LoggingCatalogSource) FetchCatalogPage(ctx context.Context, page int) (cp *medfeed.CatalogPage, err error) {
	defer func(begin time.Time) {
		var count, total int
		if cp != nil {
			count, total = len(cp.Entries), cp.TotalPages
		}
		log(ctx, s.logger, slog.LevelInfo, err, "catalog page",
			"page", page,
			"count", count,
			"total", total,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.FetchCatalogPage(ctx, page)
}
