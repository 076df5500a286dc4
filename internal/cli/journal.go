package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/capkit/capflow/internal/db"
	"github.com/capkit/capflow/internal/models"
)

var (
	// journal flags
	journalWorkflow string
	journalLimit    int
)

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().StringVar(&journalWorkflow, "workflow", "", "only show transitions for this workflow run")
	journalCmd.Flags().IntVar(&journalLimit, "limit", 50, "maximum transitions to show")
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recorded workflow transitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("journal.path")
		if path == "" {
			return fmt.Errorf("no journal configured; pass --journal or set CAPFLOW_JOURNAL_PATH")
		}

		database, err := db.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer database.Close()
		if _, err := database.MigrateUp(cmd.Context()); err != nil {
			return fmt.Errorf("failed to migrate journal: %w", err)
		}

		repo := db.NewTransitionRepository(database)

		query := db.TransitionQuery{Limit: journalLimit}
		if journalWorkflow != "" {
			query.Workflow = &journalWorkflow
		}

		page, err := repo.Query(cmd.Context(), query)
		if err != nil {
			return err
		}
		if len(page.Transitions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no transitions recorded")
			return nil
		}

		for _, transition := range page.Transitions {
			printTransition(cmd, transition)
		}
		if page.NextCursor != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "... more transitions, raise --limit to see them\n")
		}
		return nil
	},
}

func printTransition(cmd *cobra.Command, transition *models.Transition) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s %-12s %-18s %s\n",
		transition.Timestamp.Format("2006-01-02 15:04:05"),
		transition.Workflow,
		transition.Stage,
		transition.Status,
		transition.Directive,
	)
}
