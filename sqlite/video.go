package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/medfeed"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ medfeed.VideoService = (*VideoService)(nil)

// VideoService implements medfeed.VideoService using SQLite.
type VideoService struct {
	db *DB
}

// NewVideoService creates a new VideoService.
func NewVideoService(db *DB) *VideoService {
	return &VideoService{db: db}
}

// IngestVideo stores a video unless its video URL is already known.
// On success the video's ID and CreatedAt are set.
func (s *VideoService) IngestVideo(ctx context.Context, video *medfeed.Video) (medfeed.IngestStatus, error) {
	if video == nil {
		return "", medfeed.Errorf(medfeed.EINVALID, "video required")
	}
	if err := video.Validate(); err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", persistenceError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM videos WHERE video_url = ?", video.VideoURL).Scan(&exists)
	if err == nil {
		return medfeed.IngestAlreadyExists, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", persistenceError("check existing video", err)
	}

	id := uuid.New().String()
	createdAt := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO videos (id, title, video_url, page_url, published_at, source_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, video.Title, video.VideoURL, video.PageURL, formatOptionalTime(video.PublishedAt),
		video.SourceName, createdAt.Format(time.RFC3339)); err != nil {
		if isUniqueViolation(err) {
			return medfeed.IngestAlreadyExists, nil
		}
		return "", persistenceError("insert video", err)
	}

	if err := tx.Commit(); err != nil {
		return "", persistenceError("commit", err)
	}

	video.ID = id
	video.CreatedAt = createdAt
	return medfeed.IngestCreated, nil
}

// FindVideos retrieves videos matching the filter, newest published first.
func (s *VideoService) FindVideos(ctx context.Context, filter medfeed.VideoFilter) ([]*medfeed.Video, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, title, video_url, page_url, published_at, source_name, created_at FROM videos WHERE 1=1")

	if filter.VideoURL != nil {
		query.WriteString(" AND video_url = ?")
		args = append(args, *filter.VideoURL)
	}

	query.WriteString(" ORDER BY published_at DESC, created_at DESC, id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []*medfeed.Video
	for rows.Next() {
		var v medfeed.Video
		var publishedAt, createdAt string
		if err := rows.Scan(&v.ID, &v.Title, &v.VideoURL, &v.PageURL, &publishedAt, &v.SourceName, &createdAt); err != nil {
			return nil, err
		}
		if v.PublishedAt, err = parseOptionalRFC3339(publishedAt, "published_at"); err != nil {
			return nil, err
		}
		if v.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		videos = append(videos, &v)
	}

	return videos, rows.Err()
}
