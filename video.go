package medfeed

import (
	"context"
	"time"
)

// DefaultVideoSource is the publisher recorded for crawled videos.
const DefaultVideoSource = "中华医学会科学普及部"

// Video is a crawled video. VideoURL is its identity.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	VideoURL    string    `json:"videoUrl"`
	PageURL     string    `json:"pageUrl"`
	PublishedAt time.Time `json:"publishedAt"`
	SourceName  string    `json:"sourceName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the video contains invalid fields.
func (v *Video) Validate() error {
	if v.VideoURL == "" {
		return Errorf(EINVALID, "video URL required")
	}
	if v.Title == "" {
		return Errorf(EINVALID, "video title required")
	}
	return nil
}

// VideoService represents a service for managing videos.
type VideoService interface {
	// IngestVideo stores the video unless one with the same video URL
	// exists, in which case nothing is written and IngestAlreadyExists
	// is returned.
	IngestVideo(ctx context.Context, video *Video) (IngestStatus, error)

	// FindVideos retrieves videos matching the filter, newest published first.
	FindVideos(ctx context.Context, filter VideoFilter) ([]*Video, error)
}

// VideoFilter represents a filter for FindVideos.
type VideoFilter struct {
	VideoURL *string `json:"videoUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// VideoPage is what a video detail page yields.
type VideoPage struct {
	Title       string
	VideoURL    string
	PublishedAt *time.Time
}

// VideoParser extracts a video from its detail page.
type VideoParser interface {
	ParseVideo(html []byte, pageURL string) (*VideoPage, error)
}
