package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingest cycle over all configured shops",
	Long: `Scrapes every configured storefront once and appends the observed
prices to the history. A cycle already in flight is reported, not
queued.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestOrchestrator == nil {
		return errors.New("ingest service not configured")
	}

	cmd.Println("Starting ingest cycle...")

	err := ingestWithProgress(cmd.Context(), cmd, ingestOrchestrator)
	if errors.Is(err, domain.ErrIngestInProgress) {
		cmd.Println("An ingest cycle is already running.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	status := ingestOrchestrator.Status()
	cmd.Printf("Cycle %s finished: %d observations from %d connectors.\n",
		status.CycleID, status.Observations, status.Completed)
	if status.LastError != "" {
		cmd.Println(errorStyle.Render("Last error: " + status.LastError))
	}
	return nil
}

// ingestWithProgress runs the cycle while displaying progress updates.
func ingestWithProgress(ctx context.Context, cmd *cobra.Command, orch driving.IngestOrchestrator) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- orch.RunAll(ctx)
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastShop := ""
	for {
		select {
		case err := <-errCh:
			return err
		case <-ticker.C:
			status := orch.Status()
			if status.CurrentShop != "" && status.CurrentShop != lastShop {
				cmd.Printf("Scraping %s... (%d/%d)\n",
					status.CurrentShop, status.Completed+1, status.Total)
				lastShop = status.CurrentShop
			}
		}
	}
}
