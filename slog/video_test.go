package slog_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/medfeed"
	"github.com/fwojciec/medfeed/mock"
	medslog "github.com/fwojciec/medfeed/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingVideoService_IngestVideo(t *testing.T) {
	t.Parallel()

	t.Run("logs status and URLs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.VideoService{
			IngestVideoFn: func(context.Context, *medfeed.Video) (medfeed.IngestStatus, error) {
				return medfeed.IngestAlreadyExists, nil
			},
		}

		svc := medslog.NewLoggingVideoService(inner, debugLogger(&buf))
		status, err := svc.IngestVideo(context.Background(), &medfeed.Video{
			VideoURL: "https://example.com/v.mp4",
			PageURL:  "https://example.com/art_1.html",
		})

		require.NoError(t, err)
		assert.Equal(t, medfeed.IngestAlreadyExists, status)
		assert.Contains(t, buf.String(), "msg=\"ingest video\"")
		assert.Contains(t, buf.String(), "url=https://example.com/v.mp4")
		assert.Contains(t, buf.String(), "status=exists")
	})

	t.Run("logs a nil video without panicking", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.VideoService{
			IngestVideoFn: func(context.Context, *medfeed.Video) (medfeed.IngestStatus, error) {
				return "", medfeed.Errorf(medfeed.EINVALID, "video required")
			},
		}

		svc := medslog.NewLoggingVideoService(inner, debugLogger(&buf))
		_, err := svc.IngestVideo(context.Background(), nil)

		assert.Equal(t, medfeed.EINVALID, medfeed.ErrorCode(err))
		assert.Contains(t, buf.String(), "level=WARN")
	})
}
