package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound          = errors.New("timeline not found")
	ErrInvalidTimeline   = errors.New("invalid timeline")
	ErrUnsupportedEngine = errors.New("unsupported store engine")
)
