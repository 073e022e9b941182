package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driving"
	"github.com/custodia-labs/pricewatch/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestOrchestrator = (*Ingestor)(nil)

// ItemSource runs one connector's scrape and streams its items.
// Satisfied by scrape.Pipeline; narrowed here so the orchestrator can
// be tested with canned item streams.
type ItemSource interface {
	Run(ctx context.Context, conn driven.Connector) <-chan domain.ScrapedItem
}

// Ingestor runs ingest cycles: one pass over every configured
// connector, upserting shops and products and appending price
// observations. Connectors run sequentially; one cycle timestamp is
// captured at start and stamped on every observation so a cycle's
// prices form a cohort.
//
// The defining contract is failure isolation: a connector that fails
// mid-cycle is logged and recorded as the cycle's last error, and the
// remaining connectors still run.
type Ingestor struct {
	products   driven.ProductStore
	shops      driven.ShopStore
	prices     driven.PriceStore
	source     ItemSource
	connectors []driven.Connector
	strategies []PriceStrategy

	// now is the cycle clock; replaced in tests.
	now func() time.Time

	mu      sync.Mutex
	running bool
	status  driving.IngestStatus
}

// NewIngestor creates an ingest orchestrator.
func NewIngestor(
	products driven.ProductStore,
	shops driven.ShopStore,
	prices driven.PriceStore,
	source ItemSource,
	connectors []driven.Connector,
	strategies []PriceStrategy,
) *Ingestor {
	return &Ingestor{
		products:   products,
		shops:      shops,
		prices:     prices,
		source:     source,
		connectors: connectors,
		strategies: strategies,
		now:        time.Now,
	}
}

// RunAll runs one complete ingest cycle, synchronously and
// single-flight. A call while a cycle is in flight returns
// domain.ErrIngestInProgress and leaves the running cycle untouched.
func (g *Ingestor) RunAll(ctx context.Context) error {
	cycleStart := g.now().UTC()

	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		return domain.ErrIngestInProgress
	}
	g.running = true
	g.status = driving.IngestStatus{
		CycleID:   uuid.NewString(),
		Running:   true,
		Total:     len(g.connectors),
		StartedAt: cycleStart,
	}
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.running = false
		g.status.Running = false
		g.status.CurrentShop = ""
		g.status.FinishedAt = g.now().UTC()
		g.mu.Unlock()
	}()

	logger.Info("ingest cycle started: %d connectors", len(g.connectors))

	for _, conn := range g.connectors {
		shop := conn.Shop()

		g.mu.Lock()
		g.status.CurrentShop = shop.Code.Display()
		g.mu.Unlock()

		if err := g.ingestConnector(ctx, conn, cycleStart); err != nil {
			logger.Warn("%s: connector failed: %v", shop.Code, err)
			g.mu.Lock()
			g.status.LastError = err.Error()
			g.mu.Unlock()
		}

		g.mu.Lock()
		g.status.Completed++
		g.mu.Unlock()

		// Coarsest cancellation granularity: finish the current
		// connector, stop before the next.
		if ctx.Err() != nil {
			break
		}
	}

	g.mu.Lock()
	observations := g.status.Observations
	lastError := g.status.LastError
	g.mu.Unlock()
	logger.Info("ingest cycle finished: %d observations, lastError=%q", observations, lastError)

	return nil
}

// Status returns a snapshot of the current or most recent cycle.
func (g *Ingestor) Status() driving.IngestStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// ingestConnector processes a single connector within a cycle. The
// first repository failure abandons the connector's remaining work;
// page-level fetch failures never reach here, the pipeline already
// swallowed them.
func (g *Ingestor) ingestConnector(ctx context.Context, conn driven.Connector, cycleStart time.Time) error {
	shop := conn.Shop()

	shopID, err := g.shops.Upsert(ctx, shop)
	if err != nil {
		return fmt.Errorf("upsert shop %s: %w", shop.Code, err)
	}

	// Cancelling streamCtx stops the pipeline's producer goroutine when
	// a repository write fails mid-stream.
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for item := range g.source.Run(streamCtx, conn) {
		product := domain.Product{
			SKU:       item.SKU,
			Name:      item.Name,
			Category:  conn.Category(),
			Brand:     item.Brand,
			ImageURL:  item.ImageURL,
			ImageURLs: item.ImageURLs,
		}
		productID, err := g.products.Upsert(ctx, product)
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", item.SKU, err)
		}

		price := ApplyStrategies(domain.PricePoint{
			ProductSKU: item.SKU,
			Shop:       shop.Code,
			Price:      item.Price,
			Currency:   item.Currency,
			ProductURL: item.ProductURL,
			InStock:    item.InStock,
			ObservedAt: cycleStart,
		}, g.strategies)

		if _, err := g.prices.Add(ctx, price, productID, shopID); err != nil {
			return fmt.Errorf("add price for %s at %s: %w", item.SKU, shop.Code, err)
		}

		g.mu.Lock()
		g.status.Observations++
		g.mu.Unlock()
	}

	return nil
}
