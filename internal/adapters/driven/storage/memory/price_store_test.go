package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

func addPrice(t *testing.T, store *PriceStore, sku string, shop domain.ShopCode, price float64, at time.Time) {
	t.Helper()
	_, err := store.Add(context.Background(), domain.PricePoint{
		ProductSKU: sku,
		Shop:       shop,
		Price:      price,
		Currency:   "EUR",
		ObservedAt: at,
	}, "pid", "sid")
	require.NoError(t, err)
}

func TestPriceStore_LatestForProduct_SortedByPrice(t *testing.T) {
	store := NewPriceStore(nil)
	now := time.Now().UTC()

	addPrice(t, store, "iphone-15", domain.ShopNeptun, 1219.0, now)
	addPrice(t, store, "iphone-15", domain.ShopAztech, 1099.0, now)

	offers, err := store.LatestForProduct(context.Background(), "iphone-15")
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, 1099.0, offers[0].Price)
	assert.Equal(t, 1219.0, offers[1].Price)
}

func TestPriceStore_LatestForProduct_PicksNewestPerShop(t *testing.T) {
	store := NewPriceStore(nil)
	older := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	addPrice(t, store, "iphone-15", domain.ShopNeptun, 1299.0, older)
	addPrice(t, store, "iphone-15", domain.ShopNeptun, 1249.0, newer)

	offers, err := store.LatestForProduct(context.Background(), "iphone-15")
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, 1249.0, offers[0].Price)
}

func TestPriceStore_SameTimestampTie_LastInsertWins(t *testing.T) {
	store := NewPriceStore(nil)
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	// Duplicate items in one cycle share the cycle timestamp; the later
	// insert must win deterministically.
	addPrice(t, store, "iphone-15", domain.ShopNeptun, 1299.0, now)
	addPrice(t, store, "iphone-15", domain.ShopNeptun, 1289.0, now)

	offers, err := store.LatestForProduct(context.Background(), "iphone-15")
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, 1289.0, offers[0].Price)
}

func TestPriceStore_HistoryForProduct_NewestFirstTruncated(t *testing.T) {
	store := NewPriceStore(nil)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		addPrice(t, store, "iphone-15", domain.ShopNeptun, 1000+float64(i), base.Add(time.Duration(i)*time.Hour))
	}

	history, err := store.HistoryForProduct(context.Background(), "iphone-15", 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 1004.0, history[0].Price)
	assert.Equal(t, 1002.0, history[2].Price)
}

func TestPriceStore_CheapestByCategory(t *testing.T) {
	products := NewProductStore()
	ctx := context.Background()
	_, err := products.Upsert(ctx, domain.Product{SKU: "iphone-15", Name: "iPhone 15", Category: domain.CategorySmartphone})
	require.NoError(t, err)
	_, err = products.Upsert(ctx, domain.Product{SKU: "macbook-air", Name: "MacBook Air", Category: domain.CategoryLaptop})
	require.NoError(t, err)

	store := NewPriceStore(products)
	now := time.Now().UTC()
	addPrice(t, store, "iphone-15", domain.ShopNeptun, 1219.0, now)
	addPrice(t, store, "iphone-15", domain.ShopAztech, 1099.0, now)
	addPrice(t, store, "macbook-air", domain.ShopNeptun, 999.0, now)

	cheapest, err := store.CheapestByCategory(ctx, domain.CategorySmartphone, 10)
	require.NoError(t, err)
	require.Len(t, cheapest, 2, "laptop must not appear in smartphone results")
	assert.Equal(t, 1099.0, cheapest[0].Price)

	limited, err := store.CheapestByCategory(ctx, domain.CategorySmartphone, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, 1099.0, limited[0].Price)
}

func TestPriceStore_LatestForProducts(t *testing.T) {
	store := NewPriceStore(nil)
	now := time.Now().UTC()

	addPrice(t, store, "iphone-15", domain.ShopNeptun, 1219.0, now)
	addPrice(t, store, "iphone-16", domain.ShopAztech, 1399.0, now)

	result, err := store.LatestForProducts(context.Background(), []string{"iphone-15", "iphone-16", "unknown"})
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.NotContains(t, result, "unknown")
}
