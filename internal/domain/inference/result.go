package inference

import "github.com/okian/ivtrack/internal/domain/iv"

// Stage names what a trace step applied.
type Stage string

// Trace stages. Event stages reuse the timeline event kinds.
const (
	StageOrigin    Stage = "origin"
	StagePowerUp   Stage = "power_up"
	StageEvolution Stage = "evolution"
	StageAppraisal Stage = "appraisal"
)

// StepTrace records the candidate count after one reduction step.
type StepTrace struct {
	Index     int
	Stage     Stage
	Species   string
	Remaining int
	// Dropped counts candidates pushed past the top level by growth.
	Dropped int
}

// Result is the outcome of one inference run.
type Result struct {
	Candidates iv.Set
	Steps      []StepTrace
}

// Empty reports whether no candidate survived.
func (r Result) Empty() bool { return len(r.Candidates) == 0 }

// EmptiedAt returns the first step after which no candidate remained.
func (r Result) EmptiedAt() (StepTrace, bool) {
	for _, s := range r.Steps {
		if s.Remaining == 0 {
			return s, true
		}
	}
	return StepTrace{}, false
}
