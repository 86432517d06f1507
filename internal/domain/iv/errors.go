package iv

import "errors"

// Sentinel kinds for candidate operations.
var (
	ErrLevelOutOfRange = errors.New("level out of range")
	ErrEmptySet        = errors.New("empty candidate set")
)
