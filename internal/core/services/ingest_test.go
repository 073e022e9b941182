package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pricewatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
)

// stubConnector satisfies driven.Connector without any HTML involved;
// the paired stubSource emits canned items for it.
type stubConnector struct {
	shop     domain.ShopCode
	category domain.Category
}

func (c *stubConnector) Shop() domain.Shop {
	return domain.Shop{Code: c.shop, Name: c.shop.Display()}
}
func (c *stubConnector) Category() domain.Category { return c.category }
func (c *stubConnector) TargetURLs() []string      { return nil }
func (c *stubConnector) Extract(_ *goquery.Document, _ string) []domain.ScrapedItem {
	return nil
}

// stubSource maps connector shop codes to canned item streams.
type stubSource struct {
	items map[domain.ShopCode][]domain.ScrapedItem
}

func (s *stubSource) Run(ctx context.Context, conn driven.Connector) <-chan domain.ScrapedItem {
	ch := make(chan domain.ScrapedItem)
	go func() {
		defer close(ch)
		for _, item := range s.items[conn.Shop().Code] {
			select {
			case <-ctx.Done():
				return
			case ch <- item:
			}
		}
	}()
	return ch
}

// failingShopStore fails upserts for one shop code.
type failingShopStore struct {
	*memory.ShopStore
	failFor domain.ShopCode
}

func (s *failingShopStore) Upsert(ctx context.Context, shop domain.Shop) (string, error) {
	if shop.Code == s.failFor {
		return "", errors.New("connection reset")
	}
	return s.ShopStore.Upsert(ctx, shop)
}

func item(sku string, price float64) domain.ScrapedItem {
	return domain.ScrapedItem{
		SKU:        sku,
		Name:       sku,
		Price:      price,
		Currency:   "eur",
		ProductURL: "https://shop.test/" + sku,
		InStock:    true,
	}
}

func newTestIngestor(shops driven.ShopStore, source ItemSource, connectors ...driven.Connector) (*Ingestor, *memory.ProductStore, *memory.PriceStore) {
	products := memory.NewProductStore()
	prices := memory.NewPriceStore(products)
	ingestor := NewIngestor(products, shops, prices, source, connectors, DefaultStrategies("EUR"))
	return ingestor, products, prices
}

func TestIngestor_RunAll_PersistsObservations(t *testing.T) {
	source := &stubSource{items: map[domain.ShopCode][]domain.ScrapedItem{
		domain.ShopNeptun: {item("iphone-15", 1219.0)},
		domain.ShopAztech: {item("iphone-15", 1099.0)},
	}}
	ingestor, products, prices := newTestIngestor(
		memory.NewShopStore(), source,
		&stubConnector{shop: domain.ShopNeptun, category: domain.CategorySmartphone},
		&stubConnector{shop: domain.ShopAztech, category: domain.CategorySmartphone},
	)

	require.NoError(t, ingestor.RunAll(context.Background()))

	status := ingestor.Status()
	assert.False(t, status.Running)
	assert.Equal(t, 2, status.Completed)
	assert.Equal(t, 2, status.Observations)
	assert.Empty(t, status.LastError)
	assert.NotEmpty(t, status.CycleID)

	product, err := products.GetBySKU(context.Background(), "iphone-15")
	require.NoError(t, err)
	assert.Equal(t, domain.CategorySmartphone, product.Category)

	offers, err := prices.LatestForProduct(context.Background(), "iphone-15")
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, 1099.0, offers[0].Price)
}

func TestIngestor_SingleCycleTimestamp(t *testing.T) {
	source := &stubSource{items: map[domain.ShopCode][]domain.ScrapedItem{
		domain.ShopNeptun: {item("iphone-15", 1219.0)},
		domain.ShopAztech: {item("iphone-16", 1399.0)},
	}}
	ingestor, _, prices := newTestIngestor(
		memory.NewShopStore(), source,
		&stubConnector{shop: domain.ShopNeptun, category: domain.CategorySmartphone},
		&stubConnector{shop: domain.ShopAztech, category: domain.CategorySmartphone},
	)

	fixed := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	ingestor.now = func() time.Time { return fixed }

	require.NoError(t, ingestor.RunAll(context.Background()))

	for _, sku := range []string{"iphone-15", "iphone-16"} {
		history, err := prices.HistoryForProduct(context.Background(), sku, 10)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.True(t, history[0].ObservedAt.Equal(fixed), "all observations share the cycle timestamp")
	}
}

func TestIngestor_FailedConnectorDoesNotBlockOthers(t *testing.T) {
	source := &stubSource{items: map[domain.ShopCode][]domain.ScrapedItem{
		domain.ShopNeptun: {item("iphone-15", 1219.0)},
		domain.ShopAztech: {item("iphone-15", 1099.0)},
	}}
	shops := &failingShopStore{ShopStore: memory.NewShopStore(), failFor: domain.ShopNeptun}
	ingestor, _, prices := newTestIngestor(
		shops, source,
		&stubConnector{shop: domain.ShopNeptun, category: domain.CategorySmartphone},
		&stubConnector{shop: domain.ShopAztech, category: domain.CategorySmartphone},
	)

	require.NoError(t, ingestor.RunAll(context.Background()))

	status := ingestor.Status()
	assert.Contains(t, status.LastError, "neptun")
	assert.Equal(t, 2, status.Completed, "failed connector still counts as completed")

	offers, err := prices.LatestForProduct(context.Background(), "iphone-15")
	require.NoError(t, err)
	require.Len(t, offers, 1, "aztech data persisted despite neptun failure")
	assert.Equal(t, domain.ShopAztech, offers[0].Shop)
}

func TestIngestor_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	source := &blockingSource{release: release}
	ingestor, _, _ := newTestIngestor(
		memory.NewShopStore(), source,
		&stubConnector{shop: domain.ShopNeptun, category: domain.CategorySmartphone},
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = ingestor.RunAll(context.Background())
	}()

	// Wait until the first cycle is visibly running.
	require.Eventually(t, func() bool {
		return ingestor.Status().Running
	}, time.Second, 5*time.Millisecond)

	before := ingestor.Status()
	err := ingestor.RunAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrIngestInProgress)

	after := ingestor.Status()
	assert.Equal(t, before.CycleID, after.CycleID, "rejected start must not touch the running cycle")
	assert.Equal(t, before.Completed, after.Completed)

	close(release)
	wg.Wait()
	assert.False(t, ingestor.Status().Running)
}

// blockingSource holds the stream open until released.
type blockingSource struct {
	release <-chan struct{}
}

func (s *blockingSource) Run(ctx context.Context, _ driven.Connector) <-chan domain.ScrapedItem {
	ch := make(chan domain.ScrapedItem)
	go func() {
		defer close(ch)
		select {
		case <-ctx.Done():
		case <-s.release:
		}
	}()
	return ch
}

func TestIngestor_AppliesPricingStrategies(t *testing.T) {
	source := &stubSource{items: map[domain.ShopCode][]domain.ScrapedItem{
		domain.ShopNeptun: {{
			SKU: "iphone-15", Name: "iPhone 15", Price: 1219.999, Currency: "",
			ProductURL: "https://shop.test/iphone-15", InStock: true,
		}},
	}}
	ingestor, _, prices := newTestIngestor(
		memory.NewShopStore(), source,
		&stubConnector{shop: domain.ShopNeptun, category: domain.CategorySmartphone},
	)

	require.NoError(t, ingestor.RunAll(context.Background()))

	offers, err := prices.LatestForProduct(context.Background(), "iphone-15")
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "EUR", offers[0].Currency, "missing currency defaults")
	assert.InDelta(t, 1220.0, offers[0].Price, 1e-9, "price rounded to 2dp")
}
