package model

import "errors"

// Sentinel kinds for model validation errors.
var (
	ErrUnknownResource = errors.New("unknown resource")
	ErrInvalidSortKey  = errors.New("invalid sort key")
)
