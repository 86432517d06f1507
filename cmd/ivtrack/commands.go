package main

import (
	"fmt"
	"strings"

	service "github.com/okian/ivtrack/internal/app"
	"github.com/okian/ivtrack/internal/domain/appraisal"
	"github.com/okian/ivtrack/internal/domain/timeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// observationFlags binds --cp, --hp and --dust.
type observationFlags struct {
	cp, hp, dust int
}

func (o *observationFlags) bind(fs *pflag.FlagSet) {
	fs.IntVar(&o.cp, "cp", 0, "combat power shown on screen")
	fs.IntVar(&o.hp, "hp", 0, "maximum hit points shown on screen")
	fs.IntVar(&o.dust, "dust", 0, "dust cost of the next power-up")
}

func (o *observationFlags) observation() timeline.Observation {
	return timeline.Observation{CP: o.cp, HP: o.hp, Dust: o.dust}
}

func newCaptureCmd(c *cli) *cobra.Command {
	var (
		obs        observationFlags
		halfLevels bool
		nickname   string
	)
	cmd := &cobra.Command{
		Use:   "capture SPECIES",
		Short: "Start a timeline for a newly caught creature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := obs.observation()
			t, err := c.svc.Capture(cmd.Context(), service.CaptureInput{
				Species:    args[0],
				CP:         o.CP,
				HP:         o.HP,
				Dust:       o.Dust,
				HalfLevels: halfLevels,
				Nickname:   nickname,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.ID)
			return nil
		},
	}
	obs.bind(cmd.Flags())
	cmd.Flags().BoolVar(&halfLevels, "half-levels", false, "allow half-level starting points (powered-up trades, hatches)")
	cmd.Flags().StringVar(&nickname, "name", "", "nickname")
	return cmd
}

func newPowerUpCmd(c *cli) *cobra.Command {
	var (
		obs   observationFlags
		steps int
	)
	cmd := &cobra.Command{
		Use:   "powerup ID",
		Short: "Record a power-up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.svc.PowerUp(cmd.Context(), args[0], obs.observation(), steps)
			if err != nil {
				return err
			}
			return c.printSummary(cmd, t.ID)
		},
	}
	obs.bind(cmd.Flags())
	cmd.Flags().IntVar(&steps, "steps", timeline.DefaultPowerUpSteps, "half levels gained")
	return cmd
}

func newEvolveCmd(c *cli) *cobra.Command {
	var (
		obs   observationFlags
		steps int
	)
	cmd := &cobra.Command{
		Use:   "evolve ID SPECIES",
		Short: "Record an evolution",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.svc.Evolve(cmd.Context(), args[0], args[1], obs.observation(), steps)
			if err != nil {
				return err
			}
			return c.printSummary(cmd, t.ID)
		},
	}
	obs.bind(cmd.Flags())
	cmd.Flags().IntVar(&steps, "steps", timeline.DefaultEvolutionSteps, "half levels gained together with the evolution")
	return cmd
}

func newAppraiseCmd(c *cli) *cobra.Command {
	var (
		attack, defense, stamina bool
		clearAppraisal           bool
	)
	cmd := &cobra.Command{
		Use:   "appraise ID [OVERALL TOPSTAT]",
		Short: "Attach an appraisal, e.g. 'appraise ID amazes blown --attack'",
		Args: func(cmd *cobra.Command, args []string) error {
			if clearAppraisal {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				t   *timeline.Timeline
				err error
			)
			if clearAppraisal {
				t, err = c.svc.ClearAppraisal(cmd.Context(), args[0])
			} else {
				var st appraisal.Statement
				st, err = parseStatement(args[1], args[2], attack, defense, stamina)
				if err != nil {
					return err
				}
				t, err = c.svc.Appraise(cmd.Context(), args[0], st)
			}
			if err != nil {
				return err
			}
			return c.printSummary(cmd, t.ID)
		},
	}
	cmd.Flags().BoolVar(&attack, "attack", false, "attack was named as a best stat")
	cmd.Flags().BoolVar(&defense, "defense", false, "defense was named as a best stat")
	cmd.Flags().BoolVar(&stamina, "stamina", false, "stamina was named as a best stat")
	cmd.Flags().BoolVar(&clearAppraisal, "clear", false, "remove the attached appraisal")
	return cmd
}

func parseStatement(overall, topStat string, attack, defense, stamina bool) (appraisal.Statement, error) {
	o, err := appraisal.ParseOverall(overall)
	if err != nil {
		return appraisal.Statement{}, err
	}
	ts, err := appraisal.ParseTopStat(topStat)
	if err != nil {
		return appraisal.Statement{}, err
	}
	return appraisal.Statement{Overall: o, TopStat: ts, Attack: attack, Defense: defense, Stamina: stamina}, nil
}

func newRenameCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID [NAME]",
		Short: "Set the nickname; omit NAME to clear it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			t, err := c.svc.Rename(cmd.Context(), args[0], name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", t.ID, t.Name())
			return nil
		},
	}
}

func newShowCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a timeline with its quality range and candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := c.svc.Evaluate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderReport(cmd.OutOrStdout(), rep, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum candidates to print (0 prints all)")
	return cmd
}

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked timelines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ts, err := c.svc.List(cmd.Context())
			if err != nil {
				return err
			}
			return renderList(cmd.OutOrStdout(), ts)
		},
	}
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newSpeciesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "species [FILTER]",
		Short: "List known species and their base stats",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all := c.svc.Species()
			if len(args) == 1 {
				needle := strings.ToLower(args[0])
				kept := all[:0]
				for _, sp := range all {
					if strings.Contains(strings.ToLower(sp.Name), needle) {
						kept = append(kept, sp)
					}
				}
				all = kept
			}
			return renderSpecies(cmd.OutOrStdout(), all)
		},
	}
}

// printSummary evaluates id and prints a one-line outcome.
func (c *cli) printSummary(cmd *cobra.Command, id string) error {
	rep, err := c.svc.Evaluate(cmd.Context(), id)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), summaryLine(rep))
	return nil
}
