package inference_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/ivtrack/internal/domain/appraisal"
	"github.com/okian/ivtrack/internal/domain/gamedata"
	"github.com/okian/ivtrack/internal/domain/inference"
	"github.com/okian/ivtrack/internal/domain/iv"
	"github.com/okian/ivtrack/internal/domain/observation"
	"github.com/okian/ivtrack/internal/domain/timeline"
	. "github.com/smartystreets/goconvey/convey"
)

// observe returns what the player would read for truth as species.
func observe(species string, truth iv.HiddenStats, dust int) timeline.Observation {
	sp, err := gamedata.DefaultCatalog().Lookup(species)
	if err != nil {
		panic(err)
	}
	cp, hp, err := observation.Simulate(sp, truth, gamedata.DefaultLevelTable())
	if err != nil {
		panic(err)
	}
	return timeline.Observation{CP: cp, HP: hp, Dust: dust}
}

func at(h iv.HiddenStats, level gamedata.LevelIndex) iv.HiddenStats {
	h.Level = level
	return h
}

func TestInferHistory(t *testing.T) {
	Convey("Given a Pidgey captured and powered up twice", t, func() {
		ctx := context.Background()
		engine := inference.New()
		truth := iv.HiddenStats{Attack: 10, Defense: 4, Stamina: 13}

		tl, err := timeline.New("Pidgey", observe("Pidgey", at(truth, 16), 1000), false, "")
		So(err, ShouldBeNil)
		So(tl.PowerUp(observe("Pidgey", at(truth, 17), 1000), 1), ShouldBeNil)
		So(tl.PowerUp(observe("Pidgey", at(truth, 19), 1000), 2), ShouldBeNil)

		Convey("When inferring", func() {
			res, err := engine.Infer(ctx, tl)

			Convey("Then the true stats survive at the final level", func() {
				So(err, ShouldBeNil)
				So(res.Candidates.Contains(at(truth, 19)), ShouldBeTrue)
			})

			Convey("Then every survivor sits at a level the history allows", func() {
				for c := range res.Candidates {
					So(c.Level == 19 || c.Level == 21, ShouldBeTrue)
				}
			})

			Convey("Then the set never grows from step to step", func() {
				So(len(res.Steps), ShouldEqual, 3)
				for i := 1; i < len(res.Steps); i++ {
					So(res.Steps[i].Remaining, ShouldBeLessThanOrEqualTo, res.Steps[i-1].Remaining)
				}
				So(res.Steps[0].Remaining, ShouldBeLessThanOrEqualTo, 16*16*16*2)
				So(res.Steps[len(res.Steps)-1].Remaining, ShouldEqual, res.Candidates.Len())
			})

			Convey("Then the quality range brackets the truth", func() {
				lo, hi, err := engine.QualityRange(res.Candidates)
				So(err, ShouldBeNil)
				So(lo, ShouldBeLessThanOrEqualTo, truth.Percentage())
				So(hi, ShouldBeGreaterThanOrEqualTo, truth.Percentage())
			})
		})

		Convey("When inferring twice", func() {
			first, err1 := engine.Infer(ctx, tl)
			second, err2 := engine.Infer(ctx, tl)

			Convey("Then both runs agree exactly", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(cmp.Diff(first, second), ShouldBeEmpty)
			})
		})

		Convey("When a correct appraisal is attached", func() {
			before, err := engine.Infer(ctx, tl)
			So(err, ShouldBeNil)
			So(tl.Appraise(appraisal.Statement{Overall: appraisal.Average, TopStat: appraisal.Impressed, Stamina: true}), ShouldBeNil)
			after, err := engine.Infer(ctx, tl)

			Convey("Then it only narrows the set", func() {
				So(err, ShouldBeNil)
				So(after.Candidates.Len(), ShouldBeLessThanOrEqualTo, before.Candidates.Len())
				So(after.Candidates.Contains(at(truth, 19)), ShouldBeTrue)
				last := after.Steps[len(after.Steps)-1]
				So(last.Stage, ShouldEqual, inference.StageAppraisal)
				for c := range after.Candidates {
					So(before.Candidates.Contains(c), ShouldBeTrue)
				}
			})
		})
	})
}

func TestInferEvolution(t *testing.T) {
	Convey("Given an Eevee that evolves into a Vaporeon", t, func() {
		ctx := context.Background()
		engine := inference.New()
		truth := iv.HiddenStats{Attack: 7, Defense: 12, Stamina: 3}

		tl, err := timeline.New("Eevee", observe("Eevee", at(truth, 36), 2500), false, "")
		So(err, ShouldBeNil)
		evolved := observe("Vaporeon", at(truth, 36), 2500)

		Convey("When the evolution is recorded with the new species", func() {
			So(tl.Evolve("Vaporeon", evolved, 0), ShouldBeNil)
			So(tl.PowerUp(observe("Vaporeon", at(truth, 37), 2500), 1), ShouldBeNil)
			res, err := engine.Infer(ctx, tl)

			Convey("Then later steps are simulated against Vaporeon", func() {
				So(err, ShouldBeNil)
				So(res.Candidates.Contains(at(truth, 37)), ShouldBeTrue)
				So(res.Steps[1].Species, ShouldEqual, "Vaporeon")
				So(res.Steps[2].Species, ShouldEqual, "Vaporeon")
				vaporeon, _ := engine.Catalog().Lookup("Vaporeon")
				for c := range res.Candidates {
					So(observation.Matches(c, vaporeon, engine.Levels(), tl.CP(), tl.HP()), ShouldBeTrue)
				}
			})
		})

		Convey("When the same numbers are recorded without the species change", func() {
			So(tl.PowerUp(evolved, 0), ShouldBeNil)
			_, err := engine.Infer(ctx, tl)

			Convey("Then Eevee's stats cannot explain them", func() {
				So(errors.Is(err, inference.ErrInconsistentHistory), ShouldBeTrue)
			})
		})
	})
}

func TestInferAppraisalSemantics(t *testing.T) {
	Convey("Given a creature whose attack is the unique maximum", t, func() {
		ctx := context.Background()
		engine := inference.New()
		truth := iv.HiddenStats{Attack: 15, Defense: 0, Stamina: 0}
		tl, err := timeline.New("Rattata", observe("Rattata", at(truth, 8), 600), false, "")
		So(err, ShouldBeNil)

		Convey("When the appraisal flags attack alone", func() {
			So(tl.Appraise(appraisal.Statement{Overall: appraisal.Likely, TopStat: appraisal.Exceed, Attack: true}), ShouldBeNil)
			res, err := engine.Infer(ctx, tl)

			Convey("Then the truth survives", func() {
				So(err, ShouldBeNil)
				So(res.Candidates.Contains(at(truth, 8)), ShouldBeTrue)
			})
		})

		Convey("When the appraisal flags attack and defense together", func() {
			So(tl.Appraise(appraisal.Statement{Overall: appraisal.Likely, TopStat: appraisal.Exceed, Attack: true, Defense: true}), ShouldBeNil)
			res, err := engine.Infer(ctx, tl)

			Convey("Then every constraint must hold and nothing survives", func() {
				var inconsistent *inference.InconsistentHistoryError
				So(errors.As(err, &inconsistent), ShouldBeTrue)
				So(inconsistent.TimelineID, ShouldEqual, tl.ID)
				So(res.Empty(), ShouldBeTrue)
				step, ok := res.EmptiedAt()
				So(ok, ShouldBeTrue)
				So(step.Stage, ShouldEqual, inference.StageAppraisal)
				So(err.Error(), ShouldContainSubstring, "appraisal")
			})

			Convey("Then no range can be projected", func() {
				_, _, rangeErr := engine.QualityRange(res.Candidates)
				So(errors.Is(rangeErr, iv.ErrEmptySet), ShouldBeTrue)
			})
		})

		Convey("When the engine uses a wider top-stat table", func() {
			table := appraisal.DefaultTable()
			table.TopStat[appraisal.Norm] = appraisal.ValueRange{Min: 0, Max: 15}
			wide := inference.New(inference.WithAppraisalTable(table))
			So(tl.Appraise(appraisal.Statement{Overall: appraisal.Likely, TopStat: appraisal.Norm, Attack: true}), ShouldBeNil)

			Convey("Then the statement is judged against that table", func() {
				res, err := wide.Infer(ctx, tl)
				So(err, ShouldBeNil)
				So(res.Candidates.Contains(at(truth, 8)), ShouldBeTrue)

				strict, _ := engine.Infer(ctx, tl)
				So(strict.Candidates.Contains(at(truth, 8)), ShouldBeFalse)
			})
		})
	})
}

func TestInferFloor(t *testing.T) {
	Convey("Given a tiny species and a dust cost with one starting level", t, func() {
		catalog, err := gamedata.NewCatalog(gamedata.Species{Name: "Mite", Attack: 1, Defense: 1, Stamina: 1})
		So(err, ShouldBeNil)
		base := gamedata.DefaultLevelTable()
		curve := make([]float64, 0, int(base.MaxLevel())+1)
		for i := gamedata.LevelIndex(0); i <= base.MaxLevel(); i++ {
			m, _ := base.Multiplier(i)
			curve = append(curve, m)
		}
		levels, err := gamedata.NewLevelTable(curve, []gamedata.DustBand{{Cost: 100, Whole: []gamedata.LevelIndex{0}}})
		So(err, ShouldBeNil)
		engine := inference.New(inference.WithCatalog(catalog), inference.WithLevelTable(levels))

		Convey("When CP and HP are both observed at the floor", func() {
			tl, err := timeline.New("Mite", timeline.Observation{CP: 10, HP: 10, Dust: 100}, false, "")
			So(err, ShouldBeNil)
			res, err := engine.Infer(context.Background(), tl)

			Convey("Then every triple that floors to 10 is kept", func() {
				So(err, ShouldBeNil)
				So(res.Candidates.Len(), ShouldEqual, 16*16*16)
				lo, hi, err := engine.QualityRange(res.Candidates)
				So(err, ShouldBeNil)
				So(lo, ShouldEqual, 0.0)
				So(hi, ShouldEqual, 100.0)
			})
		})
	})
}

func TestInferFailures(t *testing.T) {
	Convey("Given the default engine", t, func() {
		ctx := context.Background()
		engine := inference.New()
		obs := timeline.Observation{CP: 100, HP: 30, Dust: 200}

		Convey("Then an unknown species propagates", func() {
			tl, err := timeline.New("Missingno", obs, false, "")
			So(err, ShouldBeNil)
			_, err = engine.Infer(ctx, tl)
			So(errors.Is(err, gamedata.ErrUnknownSpecies), ShouldBeTrue)
		})

		Convey("Then an unknown evolution species propagates", func() {
			truth := iv.HiddenStats{Attack: 1, Defense: 2, Stamina: 3, Level: 2}
			tl, err := timeline.New("Pidgey", observe("Pidgey", truth, 200), false, "")
			So(err, ShouldBeNil)
			So(tl.Evolve("Pidgeon", obs, 0), ShouldBeNil)
			_, err = engine.Infer(ctx, tl)
			So(errors.Is(err, gamedata.ErrUnknownSpecies), ShouldBeTrue)
		})

		Convey("Then an unknown dust cost propagates", func() {
			tl, err := timeline.New("Pidgey", timeline.Observation{CP: 100, HP: 30, Dust: 201}, false, "")
			So(err, ShouldBeNil)
			_, err = engine.Infer(ctx, tl)
			So(errors.Is(err, gamedata.ErrUnknownDust), ShouldBeTrue)
		})

		Convey("Then a history without a capture is rejected", func() {
			tl := &timeline.Timeline{ID: "x", Events: []timeline.Event{timeline.PowerUp{Observation: obs, Steps: 1}}}
			_, err := engine.Infer(ctx, tl)
			So(errors.Is(err, timeline.ErrMissingOrigin), ShouldBeTrue)
		})

		Convey("Then a nil timeline is rejected without panicking", func() {
			var (
				res inference.Result
				err error
			)
			So(func() { res, err = engine.Infer(ctx, nil) }, ShouldNotPanic)
			So(errors.Is(err, timeline.ErrMissingOrigin), ShouldBeTrue)
			So(res.Empty(), ShouldBeTrue)
		})

		Convey("Then growth past the top level drops candidates instead of failing", func() {
			truth := iv.HiddenStats{Attack: 5, Defense: 5, Stamina: 5, Level: 2}
			tl, err := timeline.New("Pidgey", observe("Pidgey", truth, 200), false, "")
			So(err, ShouldBeNil)
			So(tl.PowerUp(obs, 100), ShouldBeNil)
			res, err := engine.Infer(ctx, tl)

			So(errors.Is(err, iv.ErrLevelOutOfRange), ShouldBeFalse)
			So(errors.Is(err, inference.ErrInconsistentHistory), ShouldBeTrue)
			So(res.Steps[1].Dropped, ShouldEqual, res.Steps[0].Remaining)
			So(res.Steps[1].Remaining, ShouldEqual, 0)
		})
	})
}

func TestInferIndependentTimelines(t *testing.T) {
	Convey("Given one engine shared by several timelines", t, func() {
		engine := inference.New()
		truths := []iv.HiddenStats{
			{Attack: 1, Defense: 2, Stamina: 3, Level: 20},
			{Attack: 15, Defense: 15, Stamina: 15, Level: 22},
			{Attack: 8, Defense: 0, Stamina: 11, Level: 20},
		}
		timelines := make([]*timeline.Timeline, len(truths))
		for i, truth := range truths {
			tl, err := timeline.New("Dratini", observe("Dratini", truth, 1300), false, "")
			So(err, ShouldBeNil)
			timelines[i] = tl
		}

		Convey("When they are inferred in parallel", func() {
			results := make([]inference.Result, len(truths))
			errs := make([]error, len(truths))
			var wg sync.WaitGroup
			for i := range timelines {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], errs[i] = engine.Infer(context.Background(), timelines[i])
				}(i)
			}
			wg.Wait()

			Convey("Then each result matches a sequential run", func() {
				for i := range timelines {
					So(errs[i], ShouldBeNil)
					So(results[i].Candidates.Contains(truths[i]), ShouldBeTrue)
					seq, err := engine.Infer(context.Background(), timelines[i])
					So(err, ShouldBeNil)
					So(cmp.Diff(seq, results[i]), ShouldBeEmpty)
				}
			})
		})
	})
}
