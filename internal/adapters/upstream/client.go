// Package upstream fetches collections from the fitness API over HTTP.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/octofit/pkg/logger"
	"github.com/okian/octofit/pkg/metrics"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultMaxBody   = 8 << 20
	defaultUserAgent = "octofit-dashboard/1.0"
)

// Client performs GET requests against resolved collection URLs. A nil
// limiter means requests are not rate limited.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	timeout   time.Duration
	maxBody   int64
	userAgent string
	log       logger.Logger
}

// New returns a Client with defaults applied before opts.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{},
		timeout:   defaultTimeout,
		maxBody:   defaultMaxBody,
		userAgent: defaultUserAgent,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the body at url. A non-2xx status yields *StatusError; any
// other failure, including the timeout firing, is wrapped in ErrRequest.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		start := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %v", ErrRequest, err)
		}
		metrics.RecordRateLimitWait(float64(time.Since(start).Microseconds()) / 1000)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "upstream request failed", logger.String("url", url), logger.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBody))
		c.log.Warn(ctx, "upstream returned error status", logger.String("url", url), logger.Int("status", resp.StatusCode))
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRequest, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: %w: limit %d bytes", ErrRequest, ErrBodyTooLarge, c.maxBody)
	}
	c.log.Debug(ctx, "upstream fetch ok", logger.String("url", url), logger.Int("bytes", len(body)))
	return body, nil
}

// Outcome classifies a fetch error for metrics.
func Outcome(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	var se *StatusError
	if errors.As(err, &se) {
		return metrics.OutcomeHTTPError
	}
	return metrics.OutcomeNetworkError
}
