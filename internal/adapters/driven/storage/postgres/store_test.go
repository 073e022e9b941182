package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

// setupTestStore connects to the database named by PRICEWATCH_TEST_PG_DSN.
// Skips when unset so the suite runs without a live Postgres.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("PRICEWATCH_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("PRICEWATCH_TEST_PG_DSN not set")
	}

	store, err := NewStore(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestNewStore_EmptyDSN(t *testing.T) {
	_, err := NewStore(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPriceStore_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	sku := "pg-test-iphone-15"
	observed := time.Now().UTC().Truncate(time.Second)

	_, err := store.PriceStore().Add(ctx, domain.PricePoint{
		ProductSKU: sku,
		Shop:       domain.ShopNeptun,
		Price:      1249.0,
		Currency:   "EUR",
		InStock:    true,
		ObservedAt: observed.Add(-time.Hour),
	}, "", "")
	require.NoError(t, err)

	_, err = store.PriceStore().Add(ctx, domain.PricePoint{
		ProductSKU: sku,
		Shop:       domain.ShopNeptun,
		Price:      1219.0,
		Currency:   "EUR",
		InStock:    true,
		ObservedAt: observed,
	}, "", "")
	require.NoError(t, err)

	latest, err := store.PriceStore().LatestForProduct(ctx, sku)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, 1219.0, latest[0].Price)

	history, err := store.PriceStore().HistoryForProduct(ctx, sku, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1219.0, history[0].Price, "newest first")
}

func TestProductStore_UpsertKeepsID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.ProductStore().Upsert(ctx, domain.Product{
		SKU:      "pg-test-product",
		Name:     "Test Product",
		Category: domain.CategorySmartphone,
	})
	require.NoError(t, err)

	id2, err := store.ProductStore().Upsert(ctx, domain.Product{
		SKU:      "pg-test-product",
		Name:     "Test Product Renamed",
		Category: domain.CategorySmartphone,
	})
	require.NoError(t, err)
	assert.Equal(t, id, id2)
}
