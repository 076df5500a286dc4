// Package cli implements the capflow command line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/capkit/capflow/internal/logging"
)

var (
	// persistent flags
	flagLogLevel       string
	flagLogPretty      bool
	flagJournalPath    string
	flagNonInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "capflow",
	Short: "Drive a staged capability-enabling workflow",
	Long: `capflow walks a simulated platform through the ordered stages required
before a gated capability can be used: radio on, runtime permission
granted, background service enabled. Each stage prompts, waits for the
simulated user, and resumes where it left off.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logging.Options{
			Level:  viper.GetString("log.level"),
			Pretty: viper.GetBool("log.pretty"),
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagLogPretty, "log-pretty", false, "human-readable log output")
	rootCmd.PersistentFlags().StringVar(&flagJournalPath, "journal", "", "path to the transition journal database")
	rootCmd.PersistentFlags().BoolVar(&flagNonInteractive, "non-interactive", false, "skip prompts and accept defaults")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))
	_ = viper.BindPFlag("journal.path", rootCmd.PersistentFlags().Lookup("journal"))
	_ = viper.BindPFlag("non_interactive", rootCmd.PersistentFlags().Lookup("non-interactive"))
}

func initConfig() {
	viper.SetConfigName("capflow")
	viper.SetConfigType("yaml")
	if home, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(home + "/capflow")
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("CAPFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; flags and env carry the defaults.
	_ = viper.ReadInConfig()
}

// Execute runs the CLI and returns a process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
