package fetch

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/mkoskenniemi/lakihaku/internal/apperr"
)

const (
	maxAttempts    = 10
	baseRetryDelay = 500 * time.Millisecond
	maxRetryDelay  = 8 * time.Second
	jitterFraction = 0.3
	defaultTimeout = 60 * time.Second
)

// Response is the fully-read result of one fetch.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Fetcher issues HTTP requests through a shared Limiter, retrying 429 and
// 5xx responses with capped exponential backoff. At most one request is
// in flight at any time.
type Fetcher struct {
	client   *http.Client
	limiter  *Limiter
	reporter *Reporter
	inflight chan struct{}

	// sleep is swapped in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

type FetcherOption func(*Fetcher)

func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

func WithReporter(r *Reporter) FetcherOption {
	return func(f *Fetcher) { f.reporter = r }
}

func NewFetcher(limiter *Limiter, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: defaultTimeout},
		limiter:  limiter,
		inflight: make(chan struct{}, 1),
		sleep:    sleepCtx,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs a rate-limited GET. 429 and 5xx responses are retried up
// to the attempt budget; any other error status is returned unretried as
// a FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	f.inflight <- struct{}{}
	defer func() { <-f.inflight }()

	var lastStatus int
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := f.limiter.Acquire(ctx); err != nil {
			return nil, &apperr.FetchError{URL: url, Err: err}
		}

		resp, err := f.doOnce(ctx, url, headers)
		if err != nil {
			return nil, &apperr.FetchError{URL: url, Err: err}
		}

		if resp.StatusCode < 300 {
			return resp, nil
		}

		if !retryable(resp.StatusCode) {
			return nil, &apperr.FetchError{URL: url, Status: resp.StatusCode}
		}

		lastStatus = resp.StatusCode
		delay := backoffDelay(attempt)
		if ra, ok := retryAfter(resp.Header); ok {
			delay = ra
		}
		slog.Warn("retrying fetch",
			"url", url,
			"status", resp.StatusCode,
			"attempt", attempt+1,
			"delay", delay,
		)
		if err := f.sleep(ctx, delay); err != nil {
			return nil, &apperr.FetchError{URL: url, Status: resp.StatusCode, Err: err}
		}
	}

	return nil, &apperr.FetchError{URL: url, Status: lastStatus, RetriesExhausted: true}
}

func (f *Fetcher) doOnce(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if f.reporter != nil {
		f.reporter.Record()
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// backoffDelay doubles the base delay per attempt, caps it, and applies
// symmetric ±30% jitter.
func backoffDelay(attempt int) time.Duration {
	delay := baseRetryDelay << attempt
	if delay > maxRetryDelay || delay <= 0 {
		delay = maxRetryDelay
	}
	jitter := 1 + jitterFraction*(2*rand.Float64()-1)
	return time.Duration(float64(delay) * jitter)
}

// retryAfter reads a Retry-After header, either delta-seconds or an HTTP
// date. It takes precedence over the computed backoff.
func retryAfter(h http.Header) (time.Duration, bool) {
	value := h.Get("Retry-After")
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d, true
		}
	}
	return 0, false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
