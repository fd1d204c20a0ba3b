package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrBackpressure is returned when the dashboard answers 429.
var ErrBackpressure = errors.New("dashboard busy")

// HTTPClient wraps http.Client with the dashboard base URL.
type HTTPClient struct {
	client *http.Client
	base   string
}

func newHTTPClient(base string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}, base: base}
}

// do sends a request and decodes a JSON body into out when out is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, want int, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrBackpressure
	}
	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", http.StatusOK, nil)
}

func (c *HTTPClient) mount(ctx context.Context, resource string) (Snapshot, error) {
	var snap Snapshot
	err := c.do(ctx, http.MethodPost, "/views/"+url.PathEscape(resource), http.StatusCreated, &snap)
	return snap, err
}

func (c *HTTPClient) snapshot(ctx context.Context, id string) (Snapshot, error) {
	var snap Snapshot
	err := c.do(ctx, http.MethodGet, "/views/"+url.PathEscape(id), http.StatusOK, &snap)
	return snap, err
}

func (c *HTTPClient) setPage(ctx context.Context, id string, page int) (Snapshot, error) {
	var snap Snapshot
	err := c.do(ctx, http.MethodPut, "/views/"+url.PathEscape(id)+"/page?page="+strconv.Itoa(page), http.StatusOK, &snap)
	return snap, err
}

func (c *HTTPClient) unmount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/views/"+url.PathEscape(id), http.StatusNoContent, nil)
}

// settle polls a view until it leaves the loading state or maxWait passes.
func (c *HTTPClient) settle(ctx context.Context, id string, maxWait time.Duration) (Snapshot, bool, error) {
	deadline := time.Now().Add(maxWait)
	for {
		snap, err := c.snapshot(ctx, id)
		if err != nil {
			return snap, false, err
		}
		if snap.State.Status != statusLoading {
			return snap, true, nil
		}
		if time.Now().After(deadline) {
			return snap, false, nil
		}
		select {
		case <-ctx.Done():
			return snap, false, ctx.Err()
		case <-time.After(PollInterval):
		}
	}
}
