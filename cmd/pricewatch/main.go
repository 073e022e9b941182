// Command pricewatch tracks product prices across a fixed set of
// storefronts and answers comparison queries over the accumulated
// observation history.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/pricewatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pricewatch/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/pricewatch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pricewatch/internal/adapters/driving/cli"
	"github.com/custodia-labs/pricewatch/internal/config"
	"github.com/custodia-labs/pricewatch/internal/connectors"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
	"github.com/custodia-labs/pricewatch/internal/core/services"
	"github.com/custodia-labs/pricewatch/internal/logger"
	"github.com/custodia-labs/pricewatch/internal/scrape"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pricewatch: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger.SetVerbose(cfg.Verbose)

	stores, err := openStores(cfg)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage, err)
	}
	defer stores.close()

	shopCodes, err := cfg.ShopCodes()
	if err != nil {
		return err
	}

	fetcher := scrape.NewHTTPFetcher(cfg.FetchTimeout(), cfg.FetchRetries, cfg.FetchBackoff())
	pipeline := scrape.NewPipeline(fetcher, cfg.RequestDelay())

	conns, err := connectors.Build(shopCodes, fetcher)
	if err != nil {
		return err
	}

	ingestor := services.NewIngestor(
		stores.products,
		stores.shops,
		stores.prices,
		pipeline,
		conns,
		services.DefaultStrategies(cfg.DefaultCurrency),
	)
	comparer := services.NewComparisonService(stores.products, stores.prices)
	scheduler := services.NewScheduler(cfg.SchedulerConfig(), stores.scheduler, ingestor)

	cli.SetServices(cli.Services{
		Ingest:    ingestor,
		Comparer:  comparer,
		Products:  stores.products,
		Shops:     stores.shops,
		Prices:    stores.prices,
		Scheduler: scheduler,
	})

	return cli.Execute()
}

// configPath resolves the configuration file location. The
// PRICEWATCH_CONFIG environment variable overrides the default
// location under the user's home directory.
func configPath() string {
	if path := os.Getenv("PRICEWATCH_CONFIG"); path != "" {
		return path
	}
	return config.DefaultPath()
}

// stores bundles the driven store implementations for one backend.
type stores struct {
	products  driven.ProductStore
	shops     driven.ShopStore
	prices    driven.PriceStore
	scheduler driven.SchedulerStore

	closer func() error
}

func (s *stores) close() {
	if s.closer == nil {
		return
	}
	if err := s.closer(); err != nil {
		logger.Warn("closing storage: %v", err)
	}
}

func openStores(cfg config.Config) (*stores, error) {
	switch cfg.Storage {
	case config.BackendSQLite:
		store, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return &stores{
			products:  store.ProductStore(),
			shops:     store.ShopStore(),
			prices:    store.PriceStore(),
			scheduler: store.SchedulerStore(),
			closer:    store.Close,
		}, nil

	case config.BackendPostgres:
		store, err := postgres.NewStore(context.Background(), cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return &stores{
			products:  store.ProductStore(),
			shops:     store.ShopStore(),
			prices:    store.PriceStore(),
			scheduler: store.SchedulerStore(),
			closer:    store.Close,
		}, nil

	case config.BackendMemory:
		products := memory.NewProductStore()
		return &stores{
			products:  products,
			shops:     memory.NewShopStore(),
			prices:    memory.NewPriceStore(products),
			scheduler: memory.NewSchedulerStore(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
