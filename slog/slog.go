// Package slog provides log/slog decorators for medfeed services.
package slog

import (
	"context"
	"log/slog"
)

// level picks the record level for an operation outcome: ok on success,
// warn on failure.
func level(ok slog.Level, err error) slog.Level {
	if err != nil {
		return slog.LevelWarn
	}
	return ok
}

// log emits one record at the outcome level.
func log(ctx context.Context, logger *slog.Logger, ok slog.Level, err error, msg string, args ...any) {
	logger.Log(ctx, level(ok, err), msg, append(args, "err", err)...)
}
