package inference

import (
	"errors"
	"fmt"
)

// Sentinel kinds for inference failures.
var (
	ErrInconsistentHistory = errors.New("inconsistent history")
)

// InconsistentHistoryError reports a history no candidate survives. It
// carries the trace up to and including the step that emptied the set.
type InconsistentHistoryError struct {
	TimelineID string
	Result     Result
}

func (e *InconsistentHistoryError) Error() string {
	if step, ok := e.Result.EmptiedAt(); ok {
		return fmt.Sprintf("%s: timeline %s emptied at step %d (%s)", ErrInconsistentHistory, e.TimelineID, step.Index, step.Stage)
	}
	return fmt.Sprintf("%s: timeline %s", ErrInconsistentHistory, e.TimelineID)
}

func (e *InconsistentHistoryError) Unwrap() error { return ErrInconsistentHistory }
