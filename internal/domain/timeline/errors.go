package timeline

import "errors"

// Sentinel kinds for timeline records.
var (
	ErrInvalidEvent   = errors.New("invalid event")
	ErrMissingOrigin  = errors.New("timeline does not start with a capture")
	ErrMisplacedEvent = errors.New("capture event after the first position")
)
