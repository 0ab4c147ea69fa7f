// Package http provides an HTTP-based implementation of irs990.Fetcher
// for the IRS and S3 archive endpoints.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/irs990"
	"golang.org/x/time/rate"
)

// DefaultFetchTimeout bounds a single request attempt. Index CSVs run to
// hundreds of megabytes, so this is generous.
const DefaultFetchTimeout = 5 * time.Minute

// DefaultRateLimit is the polite request rate against the public archives,
// in requests per second.
const DefaultRateLimit = 10

// DefaultUserAgent identifies the tool to the archives.
const DefaultUserAgent = "irs990 (github.com/fwojciec/irs990)"

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Ensure Fetcher implements irs990.Fetcher at compile time.
var _ irs990.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves documents with bounded retries and a shared rate
// limit. All methods are safe for concurrent use.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	retryDelays []time.Duration
	limiter     *rate.Limiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-attempt timeout.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRateLimit caps request starts per second across all callers.
// Zero or negative disables the limit.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		if rps <= 0 {
			f.limiter = nil
			return
		}
		f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetryDelays sets the waits between retried attempts; transient
// failures retry once per delay. An empty slice disables retries.
func WithRetryDelays(delays []time.Duration) Option {
	return func(f *Fetcher) {
		f.retryDelays = delays
	}
}

// WithHTTPClient overrides the underlying client. The per-attempt timeout
// option is ignored when a client is supplied.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		retryDelays: DefaultRetryDelays(),
		limiter:     rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Fetch retrieves the document at the given URL. Transient failures
// (transport errors, HTTP 429, HTTP 5xx) are retried once per configured
// delay; anything else fails immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	attempts := len(f.retryDelays) + 1

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, irs990.Errorf(irs990.ENETWORK, "fetch %s: %s", url, ctx.Err())
			case <-time.After(f.retryDelays[attempt-1]):
			}
		}

		data, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (data []byte, retryable bool, err error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, false, irs990.Errorf(irs990.ENETWORK, "fetch %s: %s", url, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, irs990.Errorf(irs990.EINVALID, "fetch %s: %s", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		// Transport errors are retryable unless the context is done.
		return nil, ctx.Err() == nil, irs990.Errorf(irs990.ENETWORK, "fetch %s: %s", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, irs990.Errorf(irs990.ENOTFOUND, "resource not found: %s", url)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, irs990.Errorf(irs990.ENETWORK, "HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, false, irs990.Errorf(irs990.ENETWORK, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, irs990.Errorf(irs990.ENETWORK, "read %s: %s", url, err)
	}
	return body, false, nil
}
