package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/okian/ivtrack/internal/domain/appraisal"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // validator caches struct metadata

// Timeline is the tracked record of one creature.
type Timeline struct {
	ID        string
	Nickname  string
	Events    []Event
	Appraisal *appraisal.Statement
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New starts a timeline from a capture.
func New(species string, obs Observation, halfLevels bool, nickname string) (*Timeline, error) {
	origin := Origin{Observation: obs, Species: strings.TrimSpace(species), HalfLevels: halfLevels}
	if err := validateEvent(origin); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Timeline{
		ID:        uuid.NewString(),
		Nickname:  strings.TrimSpace(nickname),
		Events:    []Event{origin},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// PowerUp appends a power-up of the given number of half-level steps.
func (t *Timeline) PowerUp(obs Observation, steps int) error {
	return t.append(PowerUp{Observation: obs, Steps: steps})
}

// Evolve appends an evolution into species.
func (t *Timeline) Evolve(species string, obs Observation, steps int) error {
	return t.append(Evolution{Observation: obs, Species: strings.TrimSpace(species), Steps: steps})
}

// Appraise attaches s, replacing any previous appraisal.
func (t *Timeline) Appraise(s appraisal.Statement) error {
	if err := s.Validate(); err != nil {
		return err
	}
	t.Appraisal = &s
	t.touch()
	return nil
}

// ClearAppraisal removes the attached appraisal.
func (t *Timeline) ClearAppraisal() {
	t.Appraisal = nil
	t.touch()
}

// Rename sets the nickname; an empty name clears it.
func (t *Timeline) Rename(name string) {
	t.Nickname = strings.TrimSpace(name)
	t.touch()
}

func (t *Timeline) append(e Event) error {
	if len(t.Events) == 0 {
		return ErrMissingOrigin
	}
	if err := validateEvent(e); err != nil {
		return err
	}
	t.Events = append(t.Events, e)
	t.touch()
	return nil
}

func (t *Timeline) touch() { t.UpdatedAt = time.Now().UTC() }

// Species returns the most recently established species.
func (t *Timeline) Species() string {
	for i := len(t.Events) - 1; i >= 0; i-- {
		switch e := t.Events[i].(type) {
		case Origin:
			return e.Species
		case Evolution:
			return e.Species
		}
	}
	return ""
}

// Latest returns the most recent observation.
func (t *Timeline) Latest() Observation {
	if len(t.Events) == 0 {
		return Observation{}
	}
	return t.Events[len(t.Events)-1].Observed()
}

// CP returns the most recently observed CP.
func (t *Timeline) CP() int { return t.Latest().CP }

// HP returns the most recently observed HP.
func (t *Timeline) HP() int { return t.Latest().HP }

// Name returns the nickname, or the current species when unnamed.
func (t *Timeline) Name() string {
	if t.Nickname != "" {
		return t.Nickname
	}
	return t.Species()
}

// Validate checks the structural invariants: an Origin first and only
// first, and every event and the appraisal well-formed.
func (t *Timeline) Validate() error {
	if len(t.Events) == 0 {
		return ErrMissingOrigin
	}
	for i, e := range t.Events {
		_, isOrigin := e.(Origin)
		switch {
		case i == 0 && !isOrigin:
			return ErrMissingOrigin
		case i > 0 && isOrigin:
			return fmt.Errorf("%w: index %d", ErrMisplacedEvent, i)
		}
		if err := validateEvent(e); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	if t.Appraisal != nil {
		if err := t.Appraisal.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy safe to hand to another owner.
func (t *Timeline) Clone() *Timeline {
	c := *t
	c.Events = append([]Event(nil), t.Events...)
	if t.Appraisal != nil {
		a := *t.Appraisal
		c.Appraisal = &a
	}
	return &c
}

func validateEvent(e Event) error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidEvent, e.Kind(), err)
	}
	return nil
}
