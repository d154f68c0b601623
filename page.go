package medfeed

import (
	"context"
	"time"
)

// ExportedArticle is an article rendered for export.
type ExportedArticle struct {
	ID        string
	SourceURL string
	Title     string
	CreatedAt time.Time
	Content   string // Markdown
}

// ExportStore persists exported articles with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type ExportStore interface {
	Save(ctx context.Context, article *ExportedArticle) error
	Commit() error
	Abort() error
}
