// Package cli provides the pricewatch command-line interface. Commands
// talk to the core services through package-level ports wired in by
// main before Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driving"
	"github.com/custodia-labs/pricewatch/internal/core/services"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired in by main.
var (
	ingestOrchestrator driving.IngestOrchestrator
	comparer           driving.Comparer
	productStore       driven.ProductStore
	shopStore          driven.ShopStore
	priceStore         driven.PriceStore
	scheduler          *services.Scheduler
)

// Services bundles everything the commands need.
type Services struct {
	Ingest    driving.IngestOrchestrator
	Comparer  driving.Comparer
	Products  driven.ProductStore
	Shops     driven.ShopStore
	Prices    driven.PriceStore
	Scheduler *services.Scheduler
}

// SetServices injects the service implementations the commands use.
func SetServices(s Services) {
	ingestOrchestrator = s.Ingest
	comparer = s.Comparer
	productStore = s.Products
	shopStore = s.Shops
	priceStore = s.Prices
	scheduler = s.Scheduler
}

var rootCmd = &cobra.Command{
	Use:   "pricewatch",
	Short: "Track and compare product prices across storefronts",
	Long: `pricewatch scrapes a fixed set of storefronts for product prices,
stores every observation and answers comparison queries over the
accumulated history.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
