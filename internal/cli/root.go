// Package cli wires the workhub command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "workhub",
	Short: "Billable work-time tracking for freelance operators",
	Long: `workhub tracks billable work time: start, pause, and resume timers,
record breaks, materialize completed sessions into billable time
entries, and reconcile entries captured offline with the ledger.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(taskCmd)
}
