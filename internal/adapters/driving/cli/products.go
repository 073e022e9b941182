package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/logger"
)

var productsCmd = &cobra.Command{
	Use:   "products [query]",
	Short: "List tracked products, optionally filtered by name",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProducts,
}

func init() {
	rootCmd.AddCommand(productsCmd)
}

func runProducts(cmd *cobra.Command, args []string) error {
	if productStore == nil {
		return errors.New("product store not configured")
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	products, err := productStore.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("searching products: %w", err)
	}

	if len(products) == 0 {
		if query == "" {
			cmd.Println("No products tracked yet; run an ingest cycle first.")
		} else {
			cmd.Printf("No products match %q.\n", query)
		}
		return nil
	}

	latest := latestPrices(cmd, products)

	cmd.Println(headerStyle.Render(fmt.Sprintf("%-36s %-12s %-18s %s", "SKU", "Category", "Current", "Name")))
	for _, p := range products {
		cmd.Printf("%-36s %-12s %-18s %s\n", p.SKU, p.Category, currentPrice(latest[p.SKU]), p.Name)
	}
	return nil
}

// latestPrices annotates the listing with current offers. Price data is
// optional here: a store lookup failure degrades to a plain listing.
func latestPrices(cmd *cobra.Command, products []domain.Product) map[string][]domain.PricePoint {
	if priceStore == nil {
		return nil
	}

	skus := make([]string, len(products))
	for i, p := range products {
		skus[i] = p.SKU
	}

	latest, err := priceStore.LatestForProducts(cmd.Context(), skus)
	if err != nil {
		logger.Warn("loading latest prices: %v", err)
		return nil
	}
	return latest
}

// currentPrice renders the cheapest current offer and the shop count,
// e.g. "1099.00 EUR (3 shops)".
func currentPrice(offers []domain.PricePoint) string {
	if len(offers) == 0 {
		return mutedStyle.Render("-")
	}

	cheapest := offers[0]
	for _, offer := range offers[1:] {
		if offer.Price < cheapest.Price {
			cheapest = offer
		}
	}

	noun := "shops"
	if len(offers) == 1 {
		noun = "shop"
	}
	return fmt.Sprintf("%.2f %s (%d %s)", cheapest.Price, cheapest.Currency, len(offers), noun)
}
