package mock

import (
	"context"

	"github.com/fwojciec/medfeed"
)

var _ medfeed.ExportStore = (*ExportStore)(nil)

// ExportStore is a mock implementation of medfeed.ExportStore.
type ExportStore struct {
	SaveFn   func(ctx context.Context, article *medfeed.ExportedArticle) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *ExportStore) Save(ctx context.Context, article *medfeed.ExportedArticle) error {
	return s.SaveFn(ctx, article)
}

func (s *ExportStore) Commit() error {
	return s.CommitFn()
}

func (s *ExportStore) Abort() error {
	return s.AbortFn()
}
