package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const viewParam = "view"

// ViewsHandler exposes view sessions over HTTP.
type ViewsHandler struct {
	deps Dependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps Dependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

// HandleMount handles POST /views/{resource}.
func (h *ViewsHandler) HandleMount(w http.ResponseWriter, r *http.Request) {
	const op = "api.mount_view"
	snap, err := h.deps.Mount(r.Context(), chi.URLParam(r, viewParam))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.Header().Set("Location", "/views/"+snap.ID)
	writeJSON(w, http.StatusCreated, snap)
}

// HandleList handles GET /views.
func (h *ViewsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_views"
	views, err := h.deps.Views(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// HandleGet handles GET /views/{id}.
func (h *ViewsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_view"
	snap, err := h.deps.Snapshot(r.Context(), chi.URLParam(r, viewParam))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleSetPage handles PUT /views/{id}/page?page=N.
func (h *ViewsHandler) HandleSetPage(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_page"
	page, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("page")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("page must be an integer")))
		return
	}
	snap, err := h.deps.SetPage(r.Context(), chi.URLParam(r, viewParam), page)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleSetSort handles PUT /views/{id}/sort?key=K.
func (h *ViewsHandler) HandleSetSort(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_sort"
	key := r.URL.Query().Get("key")
	if strings.TrimSpace(key) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing key")))
		return
	}
	snap, err := h.deps.SetSort(r.Context(), chi.URLParam(r, viewParam), key)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleRefresh handles POST /views/{id}/refresh.
func (h *ViewsHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh_view"
	snap, err := h.deps.Refresh(r.Context(), chi.URLParam(r, viewParam))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleUnmount handles DELETE /views/{id}.
func (h *ViewsHandler) HandleUnmount(w http.ResponseWriter, r *http.Request) {
	const op = "api.unmount_view"
	if err := h.deps.Unmount(r.Context(), chi.URLParam(r, viewParam)); err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
