package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/capkit/capflow/internal/db"
	"github.com/capkit/capflow/internal/flow"
	"github.com/capkit/capflow/internal/journal"
	"github.com/capkit/capflow/internal/models"
	"github.com/capkit/capflow/internal/sim"
	"github.com/capkit/capflow/internal/term"
)

var (
	// run flags
	runSatisfied    []string
	runInapplicable []string
	runDenied       []string
	runSystemPrompt []string
	runWorkflow     string
)

// maxSettleRounds bounds the drive loop; a well-formed workflow settles in
// at most one round per real stage.
const maxSettleRounds = 16

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVar(&runSatisfied, "satisfied", nil, "stages already satisfied at start (radio, permission, service)")
	runCmd.Flags().StringSliceVar(&runInapplicable, "inapplicable", nil, "stages not applicable on this platform")
	runCmd.Flags().StringSliceVar(&runDenied, "deny", nil, "stages the simulated user refuses to satisfy")
	runCmd.Flags().StringSliceVar(&runSystemPrompt, "system-prompt", nil, "stages where the platform shows its own dialog")
	runCmd.Flags().StringVar(&runWorkflow, "workflow", "", "workflow run name (default: generated)")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the enabling workflow against a simulated platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		platform, err := buildPlatform()
		if err != nil {
			return err
		}

		presenter := term.NewPresenter(term.WithNonInteractive(IsNonInteractive()))

		cfg := flow.Config{Workflow: runWorkflow}

		if path := viper.GetString("journal.path"); path != "" {
			database, err := db.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open journal: %w", err)
			}
			defer database.Close()
			if _, err := database.MigrateUp(cmd.Context()); err != nil {
				return fmt.Errorf("failed to migrate journal: %w", err)
			}
			cfg.Recorder = journal.New(db.NewTransitionRepository(database))
		}

		// Print a badge for every stage transition as the policy sees it.
		decide := flow.DefaultPolicy(platform)
		cfg.Decide = func(e models.Event) flow.Directive {
			fmt.Fprintln(cmd.OutOrStdout(), presenter.StageBadge(e.Stage, e.Status))
			return decide(e)
		}

		engine := flow.Start(platform, presenter, cfg)
		if err := drive(engine, platform); err != nil {
			return err
		}

		if engine.CurrentStage() == models.StageTerminal {
			fmt.Fprintln(cmd.OutOrStdout(), "workflow finished")
		}
		return nil
	},
}

// drive plays the part of the host: it settles queued platform requests
// and feeds their outcomes back into the engine, simulating the focus
// round-trip to the settings screen for each one.
func drive(engine *flow.Engine, platform *sim.Platform) error {
	for round := 0; !engine.Done() && !engine.Paused(); round++ {
		if round >= maxSettleRounds {
			return fmt.Errorf("workflow did not settle after %d rounds", maxSettleRounds)
		}

		settled := platform.Settle()
		if len(settled) == 0 {
			return nil
		}

		for _, request := range settled {
			engine.NotifyFocusLost()
			engine.NotifyRefocus()
			if engine.Done() {
				return nil
			}

			// Implicit directives were consumed by the refocus above;
			// for explicit ones the token delivery does the work.
			if err := engine.DeliverResult(request.Token); err != nil && !errors.Is(err, flow.ErrNoPendingResult) {
				return err
			}
		}
	}
	return nil
}

func buildPlatform() (*sim.Platform, error) {
	cfg := sim.Config{}
	for _, stage := range models.RealStages() {
		cfg[stage] = sim.StageConfig{GrantOnRequest: true}
	}

	apply := func(names []string, mutate func(sc *sim.StageConfig)) error {
		for _, name := range names {
			stage, err := parseStage(name)
			if err != nil {
				return err
			}
			sc := cfg[stage]
			mutate(&sc)
			cfg[stage] = sc
		}
		return nil
	}

	if err := apply(runSatisfied, func(sc *sim.StageConfig) { sc.Satisfied = true }); err != nil {
		return nil, err
	}
	if err := apply(runInapplicable, func(sc *sim.StageConfig) { sc.Inapplicable = true }); err != nil {
		return nil, err
	}
	if err := apply(runDenied, func(sc *sim.StageConfig) { sc.GrantOnRequest = false }); err != nil {
		return nil, err
	}
	if err := apply(runSystemPrompt, func(sc *sim.StageConfig) { sc.SystemPrompt = true }); err != nil {
		return nil, err
	}

	return sim.New(cfg), nil
}

func parseStage(name string) (models.Stage, error) {
	for _, stage := range models.RealStages() {
		if string(stage) == name {
			return stage, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q (expected one of radio, permission, service)", name)
}
