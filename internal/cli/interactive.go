package cli

import (
	"os"

	"github.com/spf13/viper"
)

// IsNonInteractive reports whether prompts should be skipped and defaults
// used.
func IsNonInteractive() bool {
	if viper.GetBool("non_interactive") {
		return true
	}
	if _, ok := os.LookupEnv("CAPFLOW_NON_INTERACTIVE"); ok {
		return true
	}
	return !hasTTY()
}

// IsInteractive reports whether the session can prompt for user input.
func IsInteractive() bool {
	return !IsNonInteractive()
}

func hasTTY() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
