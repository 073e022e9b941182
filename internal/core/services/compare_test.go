package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pricewatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

func seedCompareStores(t *testing.T) (*memory.ProductStore, *memory.PriceStore) {
	t.Helper()
	ctx := context.Background()
	products := memory.NewProductStore()
	prices := memory.NewPriceStore(products)

	_, err := products.Upsert(ctx, domain.Product{
		SKU:      "iphone-15",
		Name:     "iPhone 15",
		Category: domain.CategorySmartphone,
	})
	require.NoError(t, err)

	observed := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	for _, p := range []domain.PricePoint{
		{ProductSKU: "iphone-15", Shop: domain.ShopNeptun, Price: 1219.0, Currency: "EUR", ObservedAt: observed},
		{ProductSKU: "iphone-15", Shop: domain.ShopAztech, Price: 1099.0, Currency: "EUR", ObservedAt: observed},
	} {
		_, err := prices.Add(ctx, p, "", "")
		require.NoError(t, err)
	}
	return products, prices
}

func TestComparisonService_Compare(t *testing.T) {
	products, prices := seedCompareStores(t)
	svc := NewComparisonService(products, prices)

	comparison, err := svc.Compare(context.Background(), "iphone-15")
	require.NoError(t, err)

	require.NotNil(t, comparison.Product)
	assert.Equal(t, "iPhone 15", comparison.Product.Name)

	require.Len(t, comparison.Offers, 2)
	assert.Equal(t, 1099.0, comparison.Offers[0].Price, "offers sorted cheapest first")
	assert.Equal(t, 1219.0, comparison.Offers[1].Price)

	require.NotNil(t, comparison.Cheapest)
	assert.Equal(t, domain.ShopAztech, comparison.Cheapest.Shop)
	assert.Equal(t, 1099.0, comparison.Cheapest.Price)
}

func TestComparisonService_Compare_UnknownSKU(t *testing.T) {
	products, prices := seedCompareStores(t)
	svc := NewComparisonService(products, prices)

	comparison, err := svc.Compare(context.Background(), "no-such-sku")
	require.NoError(t, err)
	assert.Nil(t, comparison.Product)
	assert.Empty(t, comparison.Offers)
	assert.Nil(t, comparison.Cheapest)
}

func TestComparisonService_History(t *testing.T) {
	ctx := context.Background()
	products := memory.NewProductStore()
	prices := memory.NewPriceStore(products)
	svc := NewComparisonService(products, prices)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 5; day++ {
		_, err := prices.Add(ctx, domain.PricePoint{
			ProductSKU: "iphone-15",
			Shop:       domain.ShopNeptun,
			Price:      1219.0 - float64(day),
			Currency:   "EUR",
			ObservedAt: base.AddDate(0, 0, day),
		}, "", "")
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, "iphone-15", 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, history[0].ObservedAt.After(history[1].ObservedAt), "newest first")
	assert.Equal(t, 1215.0, history[0].Price)

	// A non-positive limit falls back to the default.
	history, err = svc.History(ctx, "iphone-15", 0)
	require.NoError(t, err)
	assert.Len(t, history, 5)
}

func TestComparisonService_CheapestByCategory(t *testing.T) {
	ctx := context.Background()
	products := memory.NewProductStore()
	prices := memory.NewPriceStore(products)
	svc := NewComparisonService(products, prices)

	observed := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	seed := []struct {
		sku      string
		category domain.Category
		price    float64
	}{
		{"iphone-15", domain.CategorySmartphone, 1099.0},
		{"galaxy-s24", domain.CategorySmartphone, 899.0},
		{"macbook-air", domain.CategoryLaptop, 1399.0},
	}
	for _, s := range seed {
		_, err := products.Upsert(ctx, domain.Product{SKU: s.sku, Name: s.sku, Category: s.category})
		require.NoError(t, err)
		_, err = prices.Add(ctx, domain.PricePoint{
			ProductSKU: s.sku, Shop: domain.ShopNeptun, Price: s.price,
			Currency: "EUR", ObservedAt: observed,
		}, "", "")
		require.NoError(t, err)
	}

	points, err := svc.CheapestByCategory(ctx, domain.CategorySmartphone, 10)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "galaxy-s24", points[0].ProductSKU)
	assert.Equal(t, "iphone-15", points[1].ProductSKU)
}
