package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

var cheapestLimit int

var cheapestCmd = &cobra.Command{
	Use:   "cheapest <category>",
	Short: "Show the cheapest current offers in a category",
	Long: `Lists the cheapest current offer per (product, shop) pair across a
category, ascending by price. Categories: smartphone, laptop, accessory.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheapest,
}

func init() {
	cheapestCmd.Flags().IntVarP(&cheapestLimit, "limit", "n", 0, "maximum offers to show")
	rootCmd.AddCommand(cheapestCmd)
}

func runCheapest(cmd *cobra.Command, args []string) error {
	if comparer == nil {
		return errors.New("comparison service not configured")
	}

	category, err := domain.ParseCategory(args[0])
	if err != nil {
		return fmt.Errorf("unknown category %q", args[0])
	}

	points, err := comparer.CheapestByCategory(cmd.Context(), category, cheapestLimit)
	if err != nil {
		return fmt.Errorf("cheapest failed: %w", err)
	}

	if len(points) == 0 {
		cmd.Printf("No observations in category %q.\n", args[0])
		return nil
	}

	cmd.Println(headerStyle.Render(fmt.Sprintf("%-36s %-14s %10s", "Product", "Shop", "Price")))
	for i, p := range points {
		line := fmt.Sprintf("%-36s %-14s %9.2f %s", p.ProductSKU, p.Shop.Display(), p.Price, p.Currency)
		if i == 0 {
			line = cheapStyle.Render(line)
		}
		cmd.Println(line)
	}
	return nil
}
