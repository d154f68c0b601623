package medfeed

import "context"

// Fetcher retrieves raw page bytes from URLs.
type Fetcher interface {
	// Fetch returns the response body for url.
	// Failures are reported as *TransportError.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) ([]byte, error)

	// Close releases resources held by the fetcher.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
