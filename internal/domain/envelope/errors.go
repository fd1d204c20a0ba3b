package envelope

import "errors"

// Sentinel kinds for envelope decoding errors.
var (
	ErrUndecodable = errors.New("response body is not valid JSON")
	ErrMalformed   = errors.New("unexpected response envelope")
)
