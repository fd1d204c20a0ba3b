package resource

import "errors"

// ErrClosed is returned by Activate after the controller has been closed.
var ErrClosed = errors.New("controller closed")
