// Package bloom provides catalog URL de-duplication using Bloom filters.
package bloom

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Default sizing for a single catalog run.
const (
	DefaultExpectedURLs      = 50000
	DefaultFalsePositiveRate = 0.001
)

// Filter remembers URLs seen during a run. It is safe for concurrent use.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// NewDefaultFilter creates a filter with the default sizing.
func NewDefaultFilter() *Filter {
	return NewFilter(DefaultExpectedURLs, DefaultFalsePositiveRate)
}

// Seen records rawURL and reports whether it had been recorded before.
// A false positive makes a new URL look seen; a seen URL is never
// reported as new.
func (f *Filter) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestAndAddString(normalize(rawURL))
}

// Test reports whether rawURL might have been recorded.
func (f *Filter) Test(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(normalize(rawURL))
}

// EstimatedCount returns the approximate number of recorded URLs.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}

// normalize drops the fragment and lowercases scheme and host so that
// links differing only in those parts collapse to one key.
func normalize(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
