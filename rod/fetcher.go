// Package rod provides a browser-backed medfeed.Fetcher for pages that
// only render their content with JavaScript.
package rod

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/fwojciec/medfeed"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sethvargo/go-retry"
)

// DefaultFetchTimeout bounds a single page render.
// Kept consistent with http.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// Retry defaults, kept consistent with the http fetcher: three attempts
// in total, backing off exponentially from 500ms, each wait capped at 5s.
const (
	DefaultRetryAttempts = 3
	DefaultRetryBase     = 500 * time.Millisecond
	DefaultRetryMax      = 5 * time.Second
)

// Ensure Fetcher implements medfeed.Fetcher at compile time.
var _ medfeed.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// The HTTP status of the main document is checked like a plain request:
// non-2xx responses are errors and transient ones are retried.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
	headers []string // name, value pairs
	closed  atomic.Bool

	attempts    int
	backoffBase time.Duration
	backoffMax  time.Duration

	managerOpts []ManagerOption
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds each render attempt.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithBrowserOptions passes options to the underlying BrowserManager.
func WithBrowserOptions(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, opts...)
	}
}

// WithHeaders sends extra headers with every navigation.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		for k, v := range headers {
			f.headers = append(f.headers, k, v)
		}
	}
}

// WithReferer sets the Referer header.
func WithReferer(referer string) Option {
	return WithHeaders(map[string]string{"Referer": referer})
}

// WithRetry configures how often transient failures are attempted and
// how long to wait between attempts. attempts counts the first try;
// values below 1 disable retrying.
func WithRetry(attempts int, base, maxWait time.Duration) Option {
	return func(f *Fetcher) {
		f.attempts = attempts
		f.backoffBase = base
		f.backoffMax = maxWait
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		attempts:    DefaultRetryAttempts,
		backoffBase: DefaultRetryBase,
		backoffMax:  DefaultRetryMax,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, medfeed.Errorf(medfeed.EUNAVAILABLE, "starting browser: %v", err)
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
// Failures, including non-2xx document responses, are returned as
// *medfeed.TransportError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.closed.Load() {
		return nil, medfeed.Errorf(medfeed.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, &medfeed.TransportError{URL: url, Err: err}
	}

	attempts := max(f.attempts, 1)
	backoff := retry.NewExponential(f.backoffBase)
	backoff = retry.WithCappedDuration(f.backoffMax, backoff)
	backoff = retry.WithMaxRetries(uint64(attempts-1), backoff)

	var body []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		b, err := f.render(ctx, url)
		if err != nil {
			var te *medfeed.TransportError
			if errors.As(err, &te) && te.Retryable() {
				return retry.RetryableError(err)
			}
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		var te *medfeed.TransportError
		if errors.As(err, &te) {
			return nil, te
		}
		return nil, &medfeed.TransportError{URL: url, Err: err}
	}
	return body, nil
}

// render loads url in a fresh tab once.
func (f *Fetcher) render(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, release, err := f.manager.Page(ctx)
	if err != nil {
		return nil, &medfeed.TransportError{URL: url, Err: err}
	}
	defer release()

	if len(f.headers) > 0 {
		if _, err := page.SetExtraHeaders(f.headers); err != nil {
			return nil, &medfeed.TransportError{URL: url, Err: contextErr(ctx, err)}
		}
	}

	status := 0
	waitDocument := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := page.Navigate(url); err != nil {
		return nil, &medfeed.TransportError{URL: url, Err: contextErr(ctx, err)}
	}
	waitDocument()
	if err := ctx.Err(); err != nil {
		return nil, &medfeed.TransportError{URL: url, Err: err}
	}
	if err := statusError(url, status); err != nil {
		return nil, err
	}

	if err := page.WaitLoad(); err != nil {
		return nil, &medfeed.TransportError{URL: url, Err: contextErr(ctx, err)}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &medfeed.TransportError{URL: url, Err: contextErr(ctx, err)}
	}
	return []byte(html), nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// statusError maps a non-2xx document status to a TransportError.
// Zero means no status was reported and is accepted.
func statusError(url string, status int) error {
	if status == 0 || (status >= 200 && status <= 299) {
		return nil
	}
	return &medfeed.TransportError{
		URL:        url,
		StatusCode: status,
		Err:        fmt.Errorf("%d %s", status, http.StatusText(status)),
	}
}

// contextErr prefers the context's error so callers can match on
// context.DeadlineExceeded and context.Canceled.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
