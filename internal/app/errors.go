package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrStopped    = errors.New("service stopped")
	ErrBusy       = errors.New("view event queue full")
	ErrNotPaged   = errors.New("view is not paged")
)
