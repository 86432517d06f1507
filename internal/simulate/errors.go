package simulate

import "errors"

// Sentinel kinds for simulation runs.
var (
	ErrInvalidConfig = errors.New("invalid simulation config")
)
