package cmd

import "github.com/spf13/cobra"

var runTickCmd = &cobra.Command{
	Use:   "run-tick",
	Short: "Run exactly one tick of the program",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := schedulerOptionsFromFlags()
		rt, seed, err := buildProgram(programName, opts...)
		if err != nil {
			return err
		}
		defer rt.Close()
		seed()
		return rt.RunTick()
	},
}

func init() {
	rootCmd.AddCommand(runTickCmd)
}
