package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var runAsyncTimeout time.Duration

var runAsyncCmd = &cobra.Command{
	Use:   "run-async",
	Short: "Run until idle, yielding at scheduler park points instead of busy-polling",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := schedulerOptionsFromFlags()
		rt, seed, err := buildProgram(programName, opts...)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if runAsyncTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, runAsyncTimeout)
			defer cancel()
		}

		seed()
		err = rt.RunAsync(ctx)
		if err == context.Canceled || err == context.DeadlineExceeded {
			return nil
		}
		return err
	},
}

func init() {
	runAsyncCmd.Flags().DurationVar(&runAsyncTimeout, "timeout", 2*time.Second, "stop after this long, whether or not anything wakes the scheduler (0 disables)")
	rootCmd.AddCommand(runAsyncCmd)
}
