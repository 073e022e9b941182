package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current or most recent ingest cycle",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if ingestOrchestrator == nil {
		return errors.New("ingest service not configured")
	}

	status := ingestOrchestrator.Status()
	if status.CycleID == "" {
		cmd.Println("No ingest cycle has run yet.")
		return nil
	}

	cmd.Printf("Cycle:        %s\n", status.CycleID)
	if status.Running {
		cmd.Printf("State:        running (%s)\n", status.CurrentShop)
	} else {
		cmd.Println("State:        idle")
	}
	cmd.Printf("Progress:     %d/%d connectors\n", status.Completed, status.Total)
	cmd.Printf("Observations: %d\n", status.Observations)
	cmd.Printf("Started:      %s\n", status.StartedAt.Local().Format(time.RFC1123))
	if !status.FinishedAt.IsZero() {
		cmd.Printf("Finished:     %s\n", status.FinishedAt.Local().Format(time.RFC1123))
	}
	if status.LastError != "" {
		cmd.Println(errorStyle.Render("Last error:   " + status.LastError))
	}
	return nil
}
