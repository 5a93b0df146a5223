package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joeycumines/go-dataflow/scheduler"
)

var runAvailableCmd = &cobra.Command{
	Use:   "run-available",
	Short: "Run the program to quiescence, never yielding",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := schedulerOptionsFromFlags()
		rt, seed, err := buildProgram(programName, opts...)
		if err != nil {
			return err
		}
		defer rt.Close()
		seed()
		return rt.RunAvailable()
	},
}

func init() {
	rootCmd.AddCommand(runAvailableCmd)
}

func schedulerOptionsFromFlags() []scheduler.Option {
	if !verbose {
		return nil
	}
	return []scheduler.Option{scheduler.WithLogger(scheduler.NewDefaultLogger(scheduler.LevelDebug))}
}
