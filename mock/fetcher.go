package mock

import (
	"context"
	"net/url"

	"github.com/fwojciec/medfeed"
	"github.com/fwojciec/medfeed/http"
)

// Compile-time interface verification.
var (
	_ medfeed.Fetcher       = (*Fetcher)(nil)
	_ medfeed.DomainLimiter = (*DomainLimiter)(nil)
	_ http.FormPoster       = (*FormPoster)(nil)
)

// Fetcher is a mock implementation of medfeed.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) ([]byte, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// DomainLimiter is a mock implementation of medfeed.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

// FormPoster is a mock implementation of http.FormPoster.
type FormPoster struct {
	PostFormFn func(ctx context.Context, target string, form url.Values) ([]byte, error)
}

func (p *FormPoster) PostForm(ctx context.Context, target string, form url.Values) ([]byte, error) {
	return p.PostFormFn(ctx, target, form)
}
