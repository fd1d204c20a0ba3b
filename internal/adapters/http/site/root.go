// Package site serves the embedded landing page.
package site

import (
	"context"
	"errors"
	"net/http"
)

// ErrServe reports a failure to serve an embedded asset.
var ErrServe = errors.New("site serve failed")

// Router is the subset of a mux the site needs. Both *http.ServeMux and
// chi.Router satisfy it.
type Router interface {
	Handle(pattern string, h http.Handler)
}

// Register attaches the landing page at / to r.
func Register(_ context.Context, r Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Handle("/", NewRootHandler())
}

// RootHandler handles root path requests.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(FS())}
}

// ServeHTTP serves the landing page and its assets.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.files.ServeHTTP(w, r)
}
