// Package inference reduces a timeline to the set of hidden stats that
// explain every observation in it.
package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/ivtrack/internal/domain/appraisal"
	"github.com/okian/ivtrack/internal/domain/gamedata"
	"github.com/okian/ivtrack/internal/domain/iv"
	"github.com/okian/ivtrack/internal/domain/observation"
	"github.com/okian/ivtrack/internal/domain/timeline"
	"github.com/okian/ivtrack/pkg/logger"
	"github.com/okian/ivtrack/pkg/metrics"
)

// Engine runs inference against fixed game data. It holds no mutable
// state and may be shared between goroutines.
type Engine struct {
	catalog *gamedata.Catalog
	levels  *gamedata.LevelTable
	bands   appraisal.Table
	logger  logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCatalog sets the species catalog.
func WithCatalog(c *gamedata.Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithLevelTable sets the CP multiplier curve and dust bands.
func WithLevelTable(t *gamedata.LevelTable) Option {
	return func(e *Engine) {
		if t != nil {
			e.levels = t
		}
	}
}

// WithAppraisalTable sets the appraisal band intervals.
func WithAppraisalTable(t appraisal.Table) Option {
	return func(e *Engine) {
		if t.Overall != nil && t.TopStat != nil {
			e.bands = t
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New builds an engine over the built-in tables unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		catalog: gamedata.DefaultCatalog(),
		levels:  gamedata.DefaultLevelTable(),
		bands:   appraisal.DefaultTable(),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the species catalog the engine resolves names against.
func (e *Engine) Catalog() *gamedata.Catalog { return e.catalog }

// Levels returns the engine's level table.
func (e *Engine) Levels() *gamedata.LevelTable { return e.levels }

// AppraisalTable returns the appraisal band intervals.
func (e *Engine) AppraisalTable() appraisal.Table { return e.bands }

// Infer walks the timeline and returns every candidate consistent with
// all of it. An empty outcome is returned as *InconsistentHistoryError.
func (e *Engine) Infer(ctx context.Context, t *timeline.Timeline) (Result, error) {
	if t == nil {
		metrics.RecordInference(metrics.OutcomeError)
		return Result{}, fmt.Errorf("%w: nil timeline", timeline.ErrMissingOrigin)
	}
	start := time.Now()
	res, err := e.reduce(ctx, t)
	metrics.RecordInferenceLatency(float64(time.Since(start).Microseconds()) / 1000)

	var inconsistent *InconsistentHistoryError
	switch {
	case errors.As(err, &inconsistent):
		metrics.RecordInference(metrics.OutcomeInconsistent)
		metrics.RecordCandidateSetSize(0)
		e.logger.Warn(ctx, "no candidate explains the history",
			logger.String("timeline", t.ID),
			logger.Int("steps", len(res.Steps)),
		)
	case err != nil:
		metrics.RecordInference(metrics.OutcomeError)
		e.logger.Error(ctx, "inference failed", logger.String("timeline", t.ID), logger.Error(err))
	default:
		metrics.RecordInference(metrics.OutcomeConsistent)
		metrics.RecordCandidateSetSize(res.Candidates.Len())
		e.logger.Debug(ctx, "inference finished",
			logger.String("timeline", t.ID),
			logger.Int("candidates", res.Candidates.Len()),
		)
	}
	return res, err
}

func (e *Engine) reduce(ctx context.Context, t *timeline.Timeline) (Result, error) {
	if err := t.Validate(); err != nil {
		return Result{}, err
	}

	var (
		res     Result
		species gamedata.Species
		set     iv.Set
	)
	for i, ev := range t.Events {
		obs := ev.Observed()
		step := StepTrace{Index: i}

		switch ev := ev.(type) {
		case timeline.Origin:
			sp, err := e.catalog.Lookup(ev.Species)
			if err != nil {
				return res, err
			}
			species = sp
			set, err = iv.InitialCandidates(e.levels, obs.Dust, ev.HalfLevels)
			if err != nil {
				return res, fmt.Errorf("capture: %w", err)
			}
			step.Stage = StageOrigin
		case timeline.PowerUp:
			set, step.Dropped = iv.AdvanceAll(set, ev.Steps, e.levels.MaxLevel())
			step.Stage = StagePowerUp
		case timeline.Evolution:
			sp, err := e.catalog.Lookup(ev.Species)
			if err != nil {
				return res, err
			}
			species = sp
			set, step.Dropped = iv.AdvanceAll(set, ev.Steps, e.levels.MaxLevel())
			step.Stage = StageEvolution
		default:
			return res, fmt.Errorf("%w: unsupported event %T", timeline.ErrInvalidEvent, ev)
		}

		set = observation.Filter(set, species, e.levels, obs.CP, obs.HP)
		metrics.RecordDroppedCandidates(step.Dropped)
		step.Species = species.Name
		step.Remaining = set.Len()
		res.Steps = append(res.Steps, step)

		e.logger.Debug(ctx, "reduced",
			logger.Int("step", i),
			logger.String("stage", string(step.Stage)),
			logger.String("species", species.Name),
			logger.Int("remaining", step.Remaining),
		)
	}

	if t.Appraisal != nil {
		set = t.Appraisal.Filter(e.bands, set)
		res.Steps = append(res.Steps, StepTrace{
			Index:     len(t.Events),
			Stage:     StageAppraisal,
			Species:   species.Name,
			Remaining: set.Len(),
		})
	}

	res.Candidates = set
	if res.Empty() {
		return res, &InconsistentHistoryError{TimelineID: t.ID, Result: res}
	}
	return res, nil
}

// QualityRange returns the min and max quality percentage of set.
func (e *Engine) QualityRange(set iv.Set) (float64, float64, error) {
	return iv.PercentageRange(set)
}
