package driving

import (
	"context"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

// Comparison is the result of comparing a product's offers across shops.
type Comparison struct {
	// Product is the compared product; nil when the SKU is unknown.
	Product *domain.Product

	// Offers holds each shop's most recent observation, ascending by
	// price. Empty when the SKU is unknown or has no observations.
	Offers []domain.PricePoint

	// Cheapest is the minimum-price offer; nil when Offers is empty.
	Cheapest *domain.PricePoint
}

// Comparer answers price comparison queries from the persisted
// observation stream.
type Comparer interface {
	// Compare computes the latest offer per shop for a SKU. An unknown
	// SKU yields a zero Comparison (nil product, no offers) and no
	// error: "not found" is a result, not a failure.
	Compare(ctx context.Context, sku string) (Comparison, error)

	// History returns the SKU's observations, newest first, up to limit.
	History(ctx context.Context, sku string, limit int) ([]domain.PricePoint, error)

	// CheapestByCategory returns the limit cheapest latest-per-shop
	// observations across all products in the category, ascending.
	CheapestByCategory(ctx context.Context, category domain.Category, limit int) ([]domain.PricePoint, error)
}
