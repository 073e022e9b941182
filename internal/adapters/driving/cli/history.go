package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <sku>",
	Short: "Show a product's price history, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum observations to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if comparer == nil {
		return errors.New("comparison service not configured")
	}

	points, err := comparer.History(cmd.Context(), args[0], historyLimit)
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}

	if len(points) == 0 {
		cmd.Printf("No observations for SKU %q.\n", args[0])
		return nil
	}

	cmd.Println(headerStyle.Render(fmt.Sprintf("%-20s %-14s %10s", "Observed", "Shop", "Price")))
	for _, p := range points {
		cmd.Printf("%-20s %-14s %9.2f %s\n",
			p.ObservedAt.Local().Format(time.DateTime),
			p.Shop.Display(), p.Price, p.Currency)
	}
	return nil
}
