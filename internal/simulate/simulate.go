// Package simulate generates timelines from known hidden stats and checks
// that the engine recovers them. It is a self-test for game data files
// and for the engine itself.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/okian/ivtrack/internal/domain/appraisal"
	"github.com/okian/ivtrack/internal/domain/gamedata"
	"github.com/okian/ivtrack/internal/domain/inference"
	"github.com/okian/ivtrack/internal/domain/iv"
	"github.com/okian/ivtrack/internal/domain/observation"
	"github.com/okian/ivtrack/internal/domain/timeline"
	"github.com/okian/ivtrack/pkg/logger"
)

// Config describes one simulation run.
type Config struct {
	Species  string // species at capture
	Evolve   string // optional species to evolve into after the power-ups
	Count    int    // number of timelines
	PowerUps int    // single-step power-ups after capture
	Appraise bool   // attach a truthful appraisal
	Workers  int    // concurrent inferences; defaults to NumCPU
	Seed     uint64
}

// Case is one generated timeline with the stats it was built from.
type Case struct {
	Truth    iv.HiddenStats // at the final level
	Timeline *timeline.Timeline
}

// Stats summarizes a run.
type Stats struct {
	Runs         int
	Recovered    int // truth among the survivors
	Exact        int // truth was the only survivor
	Inconsistent int
	Failed       int
	Candidates   int // summed over consistent runs
	Duration     time.Duration
}

// MeanCandidates returns the average survivor count of consistent runs.
func (s Stats) MeanCandidates() float64 {
	ok := s.Runs - s.Inconsistent - s.Failed
	if ok == 0 {
		return 0
	}
	return float64(s.Candidates) / float64(ok)
}

// Generate builds cfg.Count timelines against the engine's tables.
func Generate(e *inference.Engine, cfg Config) ([]Case, error) {
	if cfg.Count <= 0 || cfg.PowerUps < 0 {
		return nil, fmt.Errorf("%w: count %d, power-ups %d", ErrInvalidConfig, cfg.Count, cfg.PowerUps)
	}
	levels := e.Levels()
	maxStart := int(levels.MaxLevel()) - cfg.PowerUps
	if maxStart < 0 {
		return nil, fmt.Errorf("%w: %d power-ups exceed the level curve", ErrInvalidConfig, cfg.PowerUps)
	}
	base, err := e.Catalog().Lookup(cfg.Species)
	if err != nil {
		return nil, err
	}
	var evolved gamedata.Species
	if cfg.Evolve != "" {
		if evolved, err = e.Catalog().Lookup(cfg.Evolve); err != nil {
			return nil, err
		}
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // reproducible test data
	cases := make([]Case, 0, cfg.Count)
	for range cfg.Count {
		truth := iv.HiddenStats{
			Attack:  rng.IntN(iv.MaxIV + 1),
			Defense: rng.IntN(iv.MaxIV + 1),
			Stamina: rng.IntN(iv.MaxIV + 1),
			Level:   gamedata.LevelIndex(2 * rng.IntN(maxStart/2+1)),
		}
		obs, err := read(levels, base, truth)
		if err != nil {
			return nil, err
		}
		t, err := timeline.New(base.Name, obs, false, "")
		if err != nil {
			return nil, err
		}
		for range cfg.PowerUps {
			truth.Level++
			if obs, err = read(levels, base, truth); err != nil {
				return nil, err
			}
			if err := t.PowerUp(obs, 1); err != nil {
				return nil, err
			}
		}
		if cfg.Evolve != "" {
			if obs, err = read(levels, evolved, truth); err != nil {
				return nil, err
			}
			if err := t.Evolve(evolved.Name, obs, 0); err != nil {
				return nil, err
			}
		}
		if cfg.Appraise {
			st, err := appraisal.Describe(e.AppraisalTable(), truth)
			switch {
			case errors.Is(err, appraisal.ErrInvalidBand):
				// no band to report; the history stays unappraised
			case err != nil:
				return nil, err
			default:
				if err := t.Appraise(st); err != nil {
					return nil, err
				}
			}
		}
		cases = append(cases, Case{Truth: truth, Timeline: t})
	}
	return cases, nil
}

func read(levels *gamedata.LevelTable, sp gamedata.Species, truth iv.HiddenStats) (timeline.Observation, error) {
	cp, hp, err := observation.Simulate(sp, truth, levels)
	if err != nil {
		return timeline.Observation{}, err
	}
	dust, err := levels.DustFor(truth.Level)
	if err != nil {
		return timeline.Observation{}, err
	}
	return timeline.Observation{CP: cp, HP: hp, Dust: dust}, nil
}

// Run generates timelines and infers each of them on a pool of workers.
func Run(ctx context.Context, e *inference.Engine, cfg Config, log logger.Logger) (Stats, error) {
	if log == nil {
		log = logger.Nop()
	}
	cases, err := Generate(e, cfg)
	if err != nil {
		return Stats{}, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	jobs := make(chan Case)
	var (
		mu    sync.Mutex
		stats Stats
		wg    sync.WaitGroup
	)
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				res, err := e.Infer(ctx, c.Timeline)
				mu.Lock()
				stats.Runs++
				var inconsistent *inference.InconsistentHistoryError
				switch {
				case errors.As(err, &inconsistent):
					stats.Inconsistent++
				case err != nil:
					stats.Failed++
					log.Error(ctx, "simulated inference failed", logger.Int("worker", w), logger.Error(err))
				default:
					stats.Candidates += res.Candidates.Len()
					if res.Candidates.Contains(c.Truth) {
						stats.Recovered++
						if res.Candidates.Len() == 1 {
							stats.Exact++
						}
					}
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, c := range cases {
		select {
		case jobs <- c:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	stats.Duration = time.Since(start)
	log.Info(ctx, "simulation finished",
		logger.String("species", cfg.Species),
		logger.Int("runs", stats.Runs),
		logger.Int("recovered", stats.Recovered),
		logger.Int("exact", stats.Exact),
		logger.Float64("mean_candidates", stats.MeanCandidates()),
	)
	return stats, ctx.Err()
}
