package crawl

import (
	"context"
	"iter"

	"github.com/fwojciec/medfeed"
	"github.com/fwojciec/medfeed/bloom"
)

// Paginator walks the numbered pages of a catalog.
type Paginator struct {
	// MaxPages caps the number of pages requested. Zero means no cap.
	MaxPages int

	// Seen records URLs already yielded. A fresh filter is used per run
	// when nil. Being a Bloom filter it can report an unseen URL as seen,
	// dropping that entry; the default filter keeps this below 0.1% for
	// up to bloom.DefaultExpectedURLs entries. Runs expected to be larger
	// should pass a filter sized with bloom.NewFilter.
	Seen *bloom.Filter
}

// Discover lazily yields the entries of source, page by page, starting
// at page 1.
//
// When a page reports a total page count the walk stops after that many
// pages. Otherwise it stops at the first page without entries. Page
// failures are yielded as *medfeed.CatalogPageError: on page 1, or while
// the total is unknown, the walk ends after the error; with a known
// total it moves on to the next page. URLs seen earlier in the run are
// not yielded again.
func (p *Paginator) Discover(ctx context.Context, source medfeed.CatalogSource) iter.Seq2[medfeed.CatalogEntry, error] {
	return func(yield func(medfeed.CatalogEntry, error) bool) {
		seen := p.Seen
		if seen == nil {
			seen = bloom.NewDefaultFilter()
		}

		total := 0
		for page := 1; ; page++ {
			if p.MaxPages > 0 && page > p.MaxPages {
				return
			}
			if total > 0 && page > total {
				return
			}
			if ctx.Err() != nil {
				return
			}

			cp, err := source.FetchCatalogPage(ctx, page)
			if err != nil {
				if !yield(medfeed.CatalogEntry{}, &medfeed.CatalogPageError{Page: page, Err: err}) {
					return
				}
				if page == 1 || total == 0 {
					return
				}
				continue
			}

			if cp.TotalPages > 0 {
				total = cp.TotalPages
			}
			if len(cp.Entries) == 0 && total == 0 {
				return
			}

			for _, entry := range cp.Entries {
				if entry.URL == "" || seen.Seen(entry.URL) {
					continue
				}
				if !yield(entry, nil) {
					return
				}
			}
		}
	}
}
