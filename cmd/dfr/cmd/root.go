package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose     bool
	programName string
)

var rootCmd = &cobra.Command{
	Use:   "dfr",
	Short: "Run a compiled dataflow program to exercise the scheduler's run surface",
	Long: `dfr drives a small built-in dataflow program through one of three
run modes: run-available (drain to quiescence, never yield), run-tick
(exactly one tick), run-async (drain, parking for external wake-ups
between rounds). It exits non-zero on a subgraph's OperatorPanic and
zero on normal completion.`,
	SilenceUsage: true,
}

// Execute runs the root command, exiting the process non-zero on
// error (including a propagated scheduler.OperatorPanic).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log scheduler events to stderr")
	rootCmd.PersistentFlags().StringVarP(&programName, "program", "p", "double", fmt.Sprintf("built-in program to run (one of: %s)", programNames()))
}
