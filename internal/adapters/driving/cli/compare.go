package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

var compareCmd = &cobra.Command{
	Use:   "compare <sku>",
	Short: "Compare a product's current price across shops",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	if comparer == nil {
		return errors.New("comparison service not configured")
	}

	comparison, err := comparer.Compare(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	if comparison.Product == nil {
		cmd.Printf("No product found for SKU %q.\n", args[0])
		return nil
	}

	cmd.Println(headerStyle.Render(comparison.Product.Name))
	if len(comparison.Offers) == 0 {
		cmd.Println(mutedStyle.Render("No price observations yet."))
		return nil
	}

	for _, offer := range comparison.Offers {
		line := fmt.Sprintf("%-14s %s", offer.Shop.Display(), formatOffer(offer))
		if comparison.Cheapest != nil && offer.ID == comparison.Cheapest.ID {
			line = cheapStyle.Render(line + "  <- cheapest")
		}
		cmd.Println(line)
	}
	return nil
}

// formatOffer renders one observation as a table row fragment.
func formatOffer(offer domain.PricePoint) string {
	stock := ""
	if !offer.InStock {
		stock = "  (out of stock)"
	}
	return fmt.Sprintf("%9.2f %s  %s%s",
		offer.Price, offer.Currency,
		mutedStyle.Render(offer.ObservedAt.Local().Format(time.DateOnly)), stock)
}
