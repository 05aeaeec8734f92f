package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kafkaos",
	Short: "Bureaucratically hostile operating system simulation",
	Long: "Single-user terminal session guarded by a layered authorization pipeline:\ntime quanta, operational mandates, intent verification, and an audit backlog\nthat only ever grows. Every check is synthetic; the obstruction is real.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
