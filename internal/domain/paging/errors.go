package paging

import "errors"

// ErrInvalidPageSize is returned by New when the page size is not positive.
var ErrInvalidPageSize = errors.New("page size must be positive")
