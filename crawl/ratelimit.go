package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/medfeed"
	"golang.org/x/time/rate"
)

var _ medfeed.DomainLimiter = (*DomainLimiter)(nil)

// DefaultDelay is the politeness delay between requests to one host.
const DefaultDelay = time.Second

// DomainLimiter enforces a minimum delay between requests to the same
// host using token buckets. Hosts are limited independently.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter allowing one request per delay
// to each host, with no bursting. A delay of zero or less disables
// limiting.
func NewDomainLimiter(delay time.Duration) *DomainLimiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
