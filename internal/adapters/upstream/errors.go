package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds for upstream errors.
var (
	ErrRequest      = errors.New("upstream request failed")
	ErrBodyTooLarge = errors.New("upstream response body too large")
)

// StatusError reports a non-success HTTP status from the API.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// StatusCode returns the HTTP status.
func (e *StatusError) StatusCode() int { return e.Code }
