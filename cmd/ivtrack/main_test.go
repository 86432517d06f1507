package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/ivtrack/internal/domain/gamedata"
	"github.com/okian/ivtrack/internal/domain/iv"
	"github.com/okian/ivtrack/internal/domain/observation"
	"github.com/smartystreets/goconvey/convey"
)

type harness struct {
	t      *testing.T
	config string
}

func newHarness(t *testing.T, engine string) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf("log_level: debug\nstore_engine: %s\ndata_file: %s\nmetrics_file: %s\n",
		engine, filepath.Join(dir, "data"), filepath.Join(dir, "ivtrack.prom"))
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	return &harness{t: t, config: path}
}

func (h *harness) run(args ...string) (int, string, string) {
	var out, errOut bytes.Buffer
	code := run(context.Background(), append([]string{"--config", h.config}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func (h *harness) metricsFile() string {
	return filepath.Join(filepath.Dir(h.config), "ivtrack.prom")
}

// reading renders the observation flags for truth as species.
func reading(species string, truth iv.HiddenStats, dust int) []string {
	sp, err := gamedata.DefaultCatalog().Lookup(species)
	if err != nil {
		panic(err)
	}
	cp, hp, err := observation.Simulate(sp, truth, gamedata.DefaultLevelTable())
	if err != nil {
		panic(err)
	}
	return []string{"--cp", fmt.Sprint(cp), "--hp", fmt.Sprint(hp), "--dust", fmt.Sprint(dust)}
}

func TestCLIWorkflow(t *testing.T) {
	for _, engine := range []string{"json", "sqlite"} {
		convey.Convey("Given a "+engine+" backed CLI", t, func() {
			h := newHarness(t, engine)
			truth := iv.HiddenStats{Attack: 15, Defense: 11, Stamina: 6, Level: 20}

			code, out, errOut := h.run(append([]string{"capture", "Dratini", "--name", "Drako"}, reading("Dratini", truth, 1300)...)...)
			convey.So(code, convey.ShouldEqual, 0)
			id := strings.TrimSpace(out)
			convey.So(id, convey.ShouldNotBeEmpty)
			convey.So(errOut, convey.ShouldContainSubstring, "captured")

			convey.Convey("When it is powered up and appraised", func() {
				grown := truth
				grown.Level = 22
				code, out, _ := h.run(append([]string{"powerup", id, "--steps", "2"}, reading("Dratini", grown, 1300)...)...)
				convey.So(code, convey.ShouldEqual, 0)
				convey.So(out, convey.ShouldContainSubstring, "Drako (Dratini)")

				code, _, _ = h.run("appraise", id, "attention", "blown", "--attack")
				convey.So(code, convey.ShouldEqual, 0)

				code, out, _ = h.run("show", id, "--limit", "0")

				convey.Convey("Then show prints the range and the true stats", func() {
					convey.So(code, convey.ShouldEqual, 0)
					convey.So(out, convey.ShouldContainSubstring, "quality")
					convey.So(out, convey.ShouldContainSubstring, "appraisal")
					convey.So(out, convey.ShouldContainSubstring, "12")
					convey.So(out, convey.ShouldContainSubstring, percent(grown.Percentage()))
				})

				convey.Convey("Then list shows the timeline", func() {
					code, out, _ := h.run("list")
					convey.So(code, convey.ShouldEqual, 0)
					convey.So(out, convey.ShouldContainSubstring, id)
					convey.So(out, convey.ShouldContainSubstring, "Drako")
				})

				convey.Convey("Then metrics are exported", func() {
					data, err := os.ReadFile(h.metricsFile())
					convey.So(err, convey.ShouldBeNil)
					convey.So(string(data), convey.ShouldContainSubstring, "ivtrack_cli_commands_total")
					convey.So(string(data), convey.ShouldContainSubstring, "ivtrack_engine_inferences_total")
				})
			})

			convey.Convey("When the appraisal contradicts the history", func() {
				code, _, _ := h.run("appraise", id, "likely", "norm", "--defense")
				convey.So(code, convey.ShouldEqual, 0)
				code, out, _ := h.run("show", id)

				convey.Convey("Then show reports the inconsistency", func() {
					convey.So(code, convey.ShouldEqual, 0)
					convey.So(out, convey.ShouldContainSubstring, "inconsistent history")
				})

				convey.Convey("Then clearing it makes the history consistent again", func() {
					code, out, _ := h.run("appraise", id, "--clear")
					convey.So(code, convey.ShouldEqual, 0)
					convey.So(out, convey.ShouldNotContainSubstring, "inconsistent")
				})
			})

			convey.Convey("When it is renamed and deleted", func() {
				code, out, _ := h.run("rename", id)
				convey.So(code, convey.ShouldEqual, 0)
				convey.So(out, convey.ShouldContainSubstring, "is now Dratini")

				code, _, _ = h.run("delete", id)
				convey.So(code, convey.ShouldEqual, 0)

				convey.Convey("Then it is gone", func() {
					code, _, errOut := h.run("show", id)
					convey.So(code, convey.ShouldEqual, 1)
					convey.So(errOut, convey.ShouldContainSubstring, "timeline not found")
				})
			})
		})
	}
}

func TestCLIErrors(t *testing.T) {
	convey.Convey("Given a memory backed CLI", t, func() {
		h := newHarness(t, "memory")

		convey.Convey("Then unknown species are refused", func() {
			code, _, errOut := h.run("capture", "Missingno", "--cp", "10", "--hp", "10", "--dust", "200")
			convey.So(code, convey.ShouldEqual, 1)
			convey.So(errOut, convey.ShouldContainSubstring, "unknown species")
		})

		convey.Convey("Then unknown phrases are refused", func() {
			code, _, errOut := h.run("appraise", "some-id", "meh", "norm", "--attack")
			convey.So(code, convey.ShouldEqual, 1)
			convey.So(errOut, convey.ShouldContainSubstring, "meh")
		})

		convey.Convey("Then wrong argument counts are refused", func() {
			code, _, _ := h.run("evolve", "only-id")
			convey.So(code, convey.ShouldEqual, 1)
		})

		convey.Convey("Then a missing config file fails early", func() {
			var out, errOut bytes.Buffer
			code := run(context.Background(), []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "list"}, &out, &errOut)
			convey.So(code, convey.ShouldEqual, 1)
			convey.So(errOut.String(), convey.ShouldContainSubstring, "load config failed")
		})

		convey.Convey("Then species can be filtered", func() {
			code, out, _ := h.run("species", "pidg")
			convey.So(code, convey.ShouldEqual, 0)
			convey.So(out, convey.ShouldContainSubstring, "Pidgey")
			convey.So(out, convey.ShouldNotContainSubstring, "Rattata")
		})

		convey.Convey("Then an empty store lists nothing", func() {
			code, out, _ := h.run("list")
			convey.So(code, convey.ShouldEqual, 0)
			convey.So(out, convey.ShouldContainSubstring, "no timelines")
		})

		convey.Convey("Then a capture is not kept for the next command", func() {
			code, out, errOut := h.run("capture", "Pidgey", "--cp", "10", "--hp", "10", "--dust", "200")
			convey.So(code, convey.ShouldEqual, 0)
			convey.So(errOut, convey.ShouldContainSubstring, "memory store does not persist")

			code, _, errOut = h.run("show", strings.TrimSpace(out))
			convey.So(code, convey.ShouldEqual, 1)
			convey.So(errOut, convey.ShouldContainSubstring, "timeline not found")
		})
	})
}

func TestCLISimulate(t *testing.T) {
	convey.Convey("Given a memory backed CLI", t, func() {
		h := newHarness(t, "memory")

		convey.Convey("When simulating appraised evolutions", func() {
			code, out, errOut := h.run("simulate", "Eevee", "--evolve", "Vaporeon", "--count", "10", "--appraise", "--seed", "3")

			convey.Convey("Then every history is recovered", func() {
				convey.So(code, convey.ShouldEqual, 0)
				convey.So(out, convey.ShouldContainSubstring, "runs 10  recovered 10")
				convey.So(errOut, convey.ShouldContainSubstring, "simulation finished")
			})
		})
	})
}
