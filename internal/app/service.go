// Package service provides the use cases behind the CLI: recording
// timelines in a store and evaluating them with the inference engine.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/ivtrack/internal/adapters/repository"
	"github.com/okian/ivtrack/internal/domain/appraisal"
	"github.com/okian/ivtrack/internal/domain/gamedata"
	"github.com/okian/ivtrack/internal/domain/inference"
	"github.com/okian/ivtrack/internal/domain/iv"
	"github.com/okian/ivtrack/internal/domain/timeline"
	"github.com/okian/ivtrack/pkg/logger"
)

// Service records timelines and evaluates them.
type Service struct {
	// mu serializes read-modify-write cycles against the store.
	mu sync.Mutex

	store  repository.Store
	engine *inference.Engine
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the timeline store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithEngine sets the inference engine.
func WithEngine(engine *inference.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Without options it uses an in-memory store
// and an engine over the built-in game data.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.engine == nil {
		s.engine = inference.New()
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

// Engine returns the inference engine.
func (s *Service) Engine() *inference.Engine { return s.engine }

// Close releases the store.
func (s *Service) Close() error {
	return s.store.Close()
}

// CaptureInput describes a newly caught creature.
type CaptureInput struct {
	Species    string
	CP         int
	HP         int
	Dust       int
	HalfLevels bool
	Nickname   string
}

// Capture starts and stores a new timeline.
func (s *Service) Capture(ctx context.Context, in CaptureInput) (*timeline.Timeline, error) {
	sp, err := s.engine.Catalog().Lookup(in.Species)
	if err != nil {
		return nil, err
	}
	t, err := timeline.New(sp.Name, timeline.Observation{CP: in.CP, HP: in.HP, Dust: in.Dust}, in.HalfLevels, in.Nickname)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("save timeline: %w", err)
	}
	s.logger.Info(ctx, "captured",
		logger.String("timeline", t.ID),
		logger.String("species", sp.Name),
		logger.Int("cp", in.CP),
	)
	return t, nil
}

// PowerUp appends a power-up of steps half levels.
func (s *Service) PowerUp(ctx context.Context, id string, obs timeline.Observation, steps int) (*timeline.Timeline, error) {
	return s.update(ctx, id, "power_up", func(t *timeline.Timeline) error {
		return t.PowerUp(obs, steps)
	})
}

// Evolve appends an evolution into species.
func (s *Service) Evolve(ctx context.Context, id, species string, obs timeline.Observation, steps int) (*timeline.Timeline, error) {
	sp, err := s.engine.Catalog().Lookup(species)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, "evolution", func(t *timeline.Timeline) error {
		return t.Evolve(sp.Name, obs, steps)
	})
}

// Appraise attaches st, replacing any earlier appraisal.
func (s *Service) Appraise(ctx context.Context, id string, st appraisal.Statement) (*timeline.Timeline, error) {
	return s.update(ctx, id, "appraisal", func(t *timeline.Timeline) error {
		return t.Appraise(st)
	})
}

// ClearAppraisal drops the attached appraisal.
func (s *Service) ClearAppraisal(ctx context.Context, id string) (*timeline.Timeline, error) {
	return s.update(ctx, id, "clear_appraisal", func(t *timeline.Timeline) error {
		t.ClearAppraisal()
		return nil
	})
}

// Rename sets or clears the nickname.
func (s *Service) Rename(ctx context.Context, id, name string) (*timeline.Timeline, error) {
	return s.update(ctx, id, "rename", func(t *timeline.Timeline) error {
		t.Rename(name)
		return nil
	})
}

// Get returns one timeline.
func (s *Service) Get(ctx context.Context, id string) (*timeline.Timeline, error) {
	return s.store.Get(ctx, id)
}

// List returns every timeline, oldest first.
func (s *Service) List(ctx context.Context) ([]*timeline.Timeline, error) {
	return s.store.List(ctx)
}

// Delete removes one timeline.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "deleted", logger.String("timeline", id))
	return nil
}

func (s *Service) update(ctx context.Context, id, action string, mutate func(*timeline.Timeline) error) (*timeline.Timeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(t); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("save timeline: %w", err)
	}
	s.logger.Info(ctx, "updated",
		logger.String("timeline", id),
		logger.String("action", action),
		logger.Int("events", len(t.Events)),
	)
	return t, nil
}

// Report is the evaluation of one timeline.
type Report struct {
	Timeline *timeline.Timeline
	// Consistent is false when no candidate explains the history.
	Consistent bool
	Candidates []iv.HiddenStats
	// Distinct counts candidates that differ in stats, not only in level.
	Distinct   int
	Steps      []inference.StepTrace
	MinPercent float64
	MaxPercent float64
}

// EmptiedAt returns the step that eliminated the last candidate.
func (r Report) EmptiedAt() (inference.StepTrace, bool) {
	return inference.Result{Steps: r.Steps}.EmptiedAt()
}

// Evaluate infers the candidates of one timeline. An inconsistent
// history is a valid outcome and is reported, not returned as an error.
func (s *Service) Evaluate(ctx context.Context, id string) (Report, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Timeline: t}

	res, err := s.engine.Infer(ctx, t)
	var inconsistent *inference.InconsistentHistoryError
	switch {
	case errors.As(err, &inconsistent):
		rep.Steps = inconsistent.Result.Steps
		return rep, nil
	case err != nil:
		return Report{}, err
	}

	rep.Consistent = true
	rep.Steps = res.Steps
	rep.Candidates = res.Candidates.Sorted()
	rep.Distinct = len(iv.Triples(res.Candidates))
	rep.MinPercent, rep.MaxPercent, err = s.engine.QualityRange(res.Candidates)
	if err != nil {
		return Report{}, err
	}
	return rep, nil
}

// Species lists the species the engine knows about, sorted by name.
func (s *Service) Species() []gamedata.Species {
	return s.engine.Catalog().All()
}
