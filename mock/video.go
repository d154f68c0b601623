package mock

import (
	"context"

	"github.com/fwojciec/medfeed"
)

// Compile-time interface verification.
var (
	_ medfeed.VideoService = (*VideoService)(nil)
	_ medfeed.VideoParser  = (*VideoParser)(nil)
)

// VideoService is a mock implementation of medfeed.VideoService.
type VideoService struct {
	IngestVideoFn func(ctx context.Context, video *medfeed.Video) (medfeed.IngestStatus, error)
	FindVideosFn  func(ctx context.Context, filter medfeed.VideoFilter) ([]*medfeed.Video, error)
}

func (s *VideoService) IngestVideo(ctx context.Context, video *medfeed.Video) (medfeed.IngestStatus, error) {
	return s.IngestVideoFn(ctx, video)
}

func (s *VideoService) FindVideos(ctx context.Context, filter medfeed.VideoFilter) ([]*medfeed.Video, error) {
	return s.FindVideosFn(ctx, filter)
}

// VideoParser is a mock implementation of medfeed.VideoParser.
type VideoParser struct {
	ParseVideoFn func(html []byte, pageURL string) (*medfeed.VideoPage, error)
}

func (p *VideoParser) ParseVideo(html []byte, pageURL string) (*medfeed.VideoPage, error) {
	return p.ParseVideoFn(html, pageURL)
}
