package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/medfeed"
)

// Ensure LoggingVideoService implements medfeed.VideoService.
var _ medfeed.VideoService = (*LoggingVideoService)(nil)

// LoggingVideoService wraps a VideoService, logging ingestion.
type LoggingVideoService struct {
	medfeed.VideoService
	logger *slog.Logger
}

// NewLoggingVideoService creates a new LoggingVideoService.
func NewLoggingVideoService(next medfeed.VideoService, logger *slog.Logger) *LoggingVideoService {
	return &LoggingVideoService{VideoService: next, logger: logger}
}

// IngestVideo delegates to the wrapped service and logs the outcome.
func (s *LoggingVideoService) IngestVideo(ctx context.Context, video *medfeed.Video) (status medfeed.IngestStatus, err error) {
	defer func(begin time.Time) {
		var url, page string
		if video != nil {
			url, page = video.VideoURL, video.PageURL
		}
		log(ctx, s.logger, slog.LevelInfo, err, "ingest video",
			"url", url,
			"page", page,
			"status", status,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.VideoService.IngestVideo(ctx, video)
}
