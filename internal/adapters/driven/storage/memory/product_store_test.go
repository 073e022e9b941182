package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

func TestProductStore_UpsertKeepsID(t *testing.T) {
	store := NewProductStore()
	ctx := context.Background()

	first, err := store.Upsert(ctx, domain.Product{SKU: "iphone-15", Name: "iPhone 15"})
	require.NoError(t, err)

	second, err := store.Upsert(ctx, domain.Product{SKU: "iphone-15", Name: "iPhone 15 (refreshed)"})
	require.NoError(t, err)
	assert.Equal(t, first, second, "upsert must preserve the persistent id")

	got, err := store.GetBySKU(ctx, "iphone-15")
	require.NoError(t, err)
	assert.Equal(t, "iPhone 15 (refreshed)", got.Name, "last write wins")
}

func TestProductStore_GetBySKU_NotFound(t *testing.T) {
	store := NewProductStore()
	_, err := store.GetBySKU(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductStore_Search(t *testing.T) {
	store := NewProductStore()
	ctx := context.Background()
	_, err := store.Upsert(ctx, domain.Product{SKU: "iphone-15", Name: "Apple iPhone 15"})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, domain.Product{SKU: "galaxy-s24", Name: "Samsung Galaxy S24"})
	require.NoError(t, err)

	all, err := store.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	apple, err := store.Search(ctx, "iphone")
	require.NoError(t, err)
	require.Len(t, apple, 1)
	assert.Equal(t, "iphone-15", apple[0].SKU)
}

func TestShopStore_UpsertAndList(t *testing.T) {
	store := NewShopStore()
	ctx := context.Background()

	id, err := store.Upsert(ctx, domain.Shop{Code: domain.ShopNeptun, Name: "Neptun KS"})
	require.NoError(t, err)

	again, err := store.Upsert(ctx, domain.Shop{Code: domain.ShopNeptun, Name: "Neptun KS"})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	shops, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, shops, 1)

	_, err = store.GetByCode(ctx, domain.ShopAztech)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
