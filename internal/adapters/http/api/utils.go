package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/octofit/internal/adapters/repository"
	service "github.com/okian/octofit/internal/app"
	"github.com/okian/octofit/internal/domain/model"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps a service error to its status, code and API kind.
func classify(err error) (int, string, error) {
	switch {
	case errors.Is(err, model.ErrUnknownResource),
		errors.Is(err, model.ErrInvalidSortKey),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request", ErrBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found", ErrNotFound
	case errors.Is(err, service.ErrNotPaged):
		return http.StatusConflict, "not_paged", ErrConflict
	case errors.Is(err, service.ErrBusy):
		return http.StatusTooManyRequests, "backpressure", ErrBackpressure
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, service.ErrStopped):
		return http.StatusServiceUnavailable, "unavailable", ErrInternal
	default:
		return http.StatusInternalServerError, "internal_error", ErrInternal
	}
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	status, code, kind := classify(err)
	writeError(w, status, code, WrapKind(op, kind, err))
}
