package main

import (
	"fmt"
	"time"

	"github.com/okian/ivtrack/internal/simulate"
	"github.com/okian/ivtrack/pkg/logger"
	"github.com/spf13/cobra"
)

func newSimulateCmd(c *cli) *cobra.Command {
	var cfg simulate.Config
	cmd := &cobra.Command{
		Use:   "simulate SPECIES",
		Short: "Generate histories from random hidden stats and check they are recovered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Species = args[0]
			if !cmd.Flags().Changed("seed") {
				cfg.Seed = uint64(time.Now().UnixNano())
			}
			stats, err := simulate.Run(cmd.Context(), c.svc.Engine(), cfg, logger.Named("simulate"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"runs %d  recovered %d  exact %d  inconsistent %d  failed %d  mean candidates %.1f  in %s\n",
				stats.Runs, stats.Recovered, stats.Exact, stats.Inconsistent, stats.Failed,
				stats.MeanCandidates(), stats.Duration.Round(time.Millisecond))
			if stats.Recovered != stats.Runs {
				return fmt.Errorf("%d of %d histories lost their true stats", stats.Runs-stats.Recovered, stats.Runs)
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&cfg.Count, "count", 100, "number of histories")
	fs.IntVar(&cfg.PowerUps, "powerups", 3, "power-ups after capture")
	fs.StringVar(&cfg.Evolve, "evolve", "", "species to evolve into after the power-ups")
	fs.BoolVar(&cfg.Appraise, "appraise", false, "attach a truthful appraisal")
	fs.IntVar(&cfg.Workers, "workers", 0, "concurrent inferences (0 uses every CPU)")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "random seed (default: time based)")
	return cmd
}
