package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run ingest cycles on the configured interval",
	Long: `Starts the scheduler and keeps ingesting on the configured interval
until interrupted. Task state persists, so a restart picks up the
schedule where it left off.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Println("Watching prices; press Ctrl-C to stop.")

	err := scheduler.Start(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	// Let a mid-cycle ingest finish before returning.
	if stopErr := scheduler.Stop(); stopErr != nil {
		return stopErr
	}

	cmd.Println("Stopped.")
	return err
}
