package main

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/ivtrack/internal/adapters/gamemaster"
	"github.com/okian/ivtrack/internal/adapters/repository"
	service "github.com/okian/ivtrack/internal/app"
	"github.com/okian/ivtrack/internal/config"
	"github.com/okian/ivtrack/internal/domain/inference"
	"github.com/okian/ivtrack/pkg/logger"
	"github.com/okian/ivtrack/pkg/metrics"
	"github.com/spf13/cobra"
)

// cli holds the state shared by every subcommand of one invocation.
type cli struct {
	out    io.Writer
	errOut io.Writer

	configPath string

	cfg *config.Config
	svc *service.Service
	log logger.Logger
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	c := &cli{out: out, errOut: errOut}
	root := newRootCmd(c)
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	c.finish(ctx, cmd, err)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "ivtrack",
		Short: "Track observations and infer hidden stats",
		Long: "Track observations and infer hidden stats.\n\n" +
			"Timelines are kept in the store named by store_engine: sqlite (default) or json\n" +
			"persist to data_file; memory is discarded when the command exits and is only\n" +
			"meant for tests and simulate.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (default $"+config.EnvConfigFile+")")
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	root.AddCommand(
		newCaptureCmd(c),
		newPowerUpCmd(c),
		newEvolveCmd(c),
		newAppraiseCmd(c),
		newRenameCmd(c),
		newShowCmd(c),
		newListCmd(c),
		newDeleteCmd(c),
		newSpeciesCmd(c),
		newSimulateCmd(c),
	)
	return root
}

// setup loads configuration and wires the service.
func (c *cli) setup(ctx context.Context) error {
	var err error
	if c.configPath != "" {
		c.cfg, err = config.LoadFrom(ctx, c.configPath)
	} else {
		c.cfg, err = config.Load(ctx)
	}
	if err != nil {
		return err
	}

	logOpts := []logger.Option{logger.WithWriter(c.errOut)}
	if c.cfg.LogFormat == "json" {
		logOpts = append(logOpts, logger.WithJSON())
	}
	if err := logger.Init(logOpts...); err != nil {
		return err
	}
	if err := logger.SetLevelString(c.cfg.LogLevel); err != nil {
		return err
	}
	c.log = logger.Named("cli")

	engineOpts := []inference.Option{inference.WithLogger(logger.Named("engine"))}
	if c.cfg.GameMasterFile != "" {
		tables, err := gamemaster.LoadFile(c.cfg.GameMasterFile)
		if err != nil {
			return err
		}
		engineOpts = append(engineOpts,
			inference.WithCatalog(tables.Catalog),
			inference.WithLevelTable(tables.Levels),
		)
		c.log.Debug(ctx, "loaded game master",
			logger.String("path", c.cfg.GameMasterFile),
			logger.Int("species", tables.Catalog.Len()),
		)
	}

	store, err := repository.NewByEngine(c.cfg.StoreEngine, c.cfg.DataFile)
	if err != nil {
		return err
	}
	c.svc = service.New(
		service.WithStore(store),
		service.WithEngine(inference.New(engineOpts...)),
		service.WithLogger(logger.Named("service")),
	)
	c.log.Debug(ctx, "store opened",
		logger.String("engine", c.cfg.StoreEngine),
		logger.String("path", c.cfg.DataFile),
	)
	if c.cfg.StoreEngine == config.EngineMemory {
		c.log.Warn(ctx, "memory store does not persist between commands; use json or sqlite to keep timelines")
	}
	return nil
}

// finish closes the store and exports metrics for the command that ran.
func (c *cli) finish(ctx context.Context, cmd *cobra.Command, runErr error) {
	if c.svc != nil {
		if err := c.svc.Close(); err != nil && c.log != nil {
			c.log.Error(ctx, "close store", logger.Error(err))
		}
	}
	if cmd == nil || c.cfg == nil {
		return
	}

	status := metrics.StatusOK
	if runErr != nil {
		status = metrics.StatusError
	}
	metrics.RecordCommand(cmd.Name(), status)

	if c.cfg.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(c.cfg.MetricsFile); err != nil && c.log != nil {
		c.log.Warn(ctx, "metrics export failed", logger.String("path", c.cfg.MetricsFile), logger.Error(err))
	}
}
