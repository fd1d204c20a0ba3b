// Package resource implements the fetch lifecycle of one resource collection.
//
// A Controller moves Idle → Loading → {Success | Error}. It never performs
// I/O itself: Activate hands out a Request and the caller reports the outcome
// through Complete. Only the outcome of the most recent request is applied,
// and nothing is applied once the controller is closed.
package resource

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/okian/octofit/internal/domain/envelope"
	"github.com/okian/octofit/internal/domain/model"
)

// Resolver builds the URL of a collection.
type Resolver interface {
	Resolve(segment string, query url.Values) string
}

// Fetcher retrieves the raw body at a URL. A non-success HTTP status should
// be reported as an error implementing StatusCoder.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// StatusCoder is implemented by errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// Request is one fetch the caller must execute.
type Request struct {
	Seq uint64
	URL string
}

// Controller is not safe for concurrent use.
type Controller struct {
	resource model.Resource
	resolver Resolver
	state    model.FetchState
	seq      uint64
	closed   bool
}

// NewController returns an idle controller for res.
func NewController(res model.Resource, resolver Resolver) *Controller {
	return &Controller{
		resource: res,
		resolver: resolver,
		state:    model.Idle(),
	}
}

// Resource returns the collection this controller tracks.
func (c *Controller) Resource() model.Resource { return c.resource }

// Activate enters Loading and returns the request to issue. Each call
// supersedes every earlier request.
func (c *Controller) Activate(query url.Values) (Request, error) {
	if c.closed {
		return Request{}, ErrClosed
	}
	c.seq++
	c.state = model.Loading()
	return Request{
		Seq: c.seq,
		URL: c.resolver.Resolve(c.resource.Segment(), query),
	}, nil
}

// Complete applies the outcome of request seq. It reports false, and leaves
// the state untouched, when seq is not the latest request or the controller
// is closed.
func (c *Controller) Complete(seq uint64, body []byte, err error) bool {
	if c.closed || seq != c.seq || c.state.Status() != model.StatusLoading {
		return false
	}
	c.state = outcome(body, err)
	return true
}

// CurrentState returns the latest state.
func (c *Controller) CurrentState() model.FetchState { return c.state }

// Pending reports whether a request is outstanding.
func (c *Controller) Pending() bool {
	return !c.closed && c.state.Status() == model.StatusLoading
}

// Close stops the controller from applying further outcomes.
func (c *Controller) Close() { c.closed = true }

// Closed reports whether Close has been called.
func (c *Controller) Closed() bool { return c.closed }

// Load runs one activation synchronously.
func (c *Controller) Load(ctx context.Context, f Fetcher, query url.Values) model.FetchState {
	req, err := c.Activate(query)
	if err != nil {
		return c.state
	}
	body, err := f.Fetch(ctx, req.URL)
	c.Complete(req.Seq, body, err)
	return c.state
}

func outcome(body []byte, err error) model.FetchState {
	if err != nil {
		return model.Failed(FailureMessage(err))
	}
	page, err := envelope.Normalize(body)
	if err != nil {
		return model.Failed(fmt.Sprintf("invalid response body: %v", err))
	}
	return model.Succeeded(page.Items, page.TotalCount)
}

// FailureMessage renders a fetch error for display.
func FailureMessage(err error) string {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return fmt.Sprintf("HTTP error! status: %d", sc.StatusCode())
	}
	return fmt.Sprintf("network request failed: %v", err)
}
