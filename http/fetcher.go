// Package http provides an HTTP-based implementation of medfeed.Fetcher
// for static pages, and catalog sources that page through HTTP endpoints.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/corpix/uarand"
	"github.com/fwojciec/medfeed"
	"github.com/sethvargo/go-retry"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent is sent when no other user agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Retry defaults: three attempts in total, backing off exponentially
// from 500ms with each wait capped at 5s.
const (
	DefaultRetryAttempts = 3
	DefaultRetryBase     = 500 * time.Millisecond
	DefaultRetryMax      = 5 * time.Second
)

// Ensure Fetcher implements medfeed.Fetcher at compile time.
var _ medfeed.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript and is suitable
// for static sites only. Transient server errors are retried.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	randomAgent bool
	headers     http.Header

	attempts    int
	backoffBase time.Duration
	backoffMax  time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets a fixed User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRandomUserAgent sends a random realistic User-Agent on every request.
func WithRandomUserAgent() Option {
	return func(f *Fetcher) {
		f.randomAgent = true
	}
}

// WithReferer sets the Referer header.
func WithReferer(referer string) Option {
	return WithHeaders(map[string]string{"Referer": referer})
}

// WithHeaders adds headers to every request, replacing earlier values.
// Typical uses are Origin and X-Requested-With for endpoints that
// serve only in-page requests.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		for k, v := range headers {
			f.headers.Set(k, v)
		}
	}
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

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		headers:     make(http.Header),
		attempts:    DefaultRetryAttempts,
		backoffBase: DefaultRetryBase,
		backoffMax:  DefaultRetryMax,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the body of the given URL.
// Failures are returned as *medfeed.TransportError.
func (f *Fetcher) Fetch(ctx context.Context, target string) ([]byte, error) {
	return f.do(ctx, http.MethodGet, target, nil)
}

// PostForm posts form values to target and returns the response body.
// Failures are returned as *medfeed.TransportError.
func (f *Fetcher) PostForm(ctx context.Context, target string, form url.Values) ([]byte, error) {
	return f.do(ctx, http.MethodPost, target, form)
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func (f *Fetcher) do(ctx context.Context, method, target string, form url.Values) ([]byte, error) {
	attempts := f.attempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := retry.NewExponential(f.backoffBase)
	backoff = retry.WithCappedDuration(f.backoffMax, backoff)
	backoff = retry.WithMaxRetries(uint64(attempts-1), backoff)

	var body []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		b, err := f.once(ctx, method, target, form)
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
		// Cancelled while waiting between attempts.
		return nil, &medfeed.TransportError{URL: target, Err: err}
	}
	return body, nil
}

func (f *Fetcher) once(ctx context.Context, method, target string, form url.Values) ([]byte, error) {
	var payload io.Reader
	if form != nil {
		payload = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, &medfeed.TransportError{URL: target, Err: err}
	}
	for k, v := range f.headers {
		req.Header[k] = v
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("User-Agent", f.agent())

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &medfeed.TransportError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &medfeed.TransportError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        errors.New(resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &medfeed.TransportError{URL: target, Err: err}
	}
	return body, nil
}

func (f *Fetcher) agent() string {
	if f.randomAgent {
		if ua := uarand.GetRandom(); ua != "" {
			return ua
		}
	}
	return f.userAgent
}
