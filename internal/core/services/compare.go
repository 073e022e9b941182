package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driving"
)

// Ensure ComparisonService implements the interface.
var _ driving.Comparer = (*ComparisonService)(nil)

const (
	// DefaultHistoryLimit bounds history queries without an explicit limit.
	DefaultHistoryLimit = 30

	// DefaultCheapestLimit bounds category queries without an explicit limit.
	DefaultCheapestLimit = 10
)

// ComparisonService answers comparison queries from the persisted
// observation stream. Repository failures surface to the caller as-is;
// retry policy belongs above this layer.
type ComparisonService struct {
	products driven.ProductStore
	prices   driven.PriceStore
}

// NewComparisonService creates a comparison service.
func NewComparisonService(products driven.ProductStore, prices driven.PriceStore) *ComparisonService {
	return &ComparisonService{products: products, prices: prices}
}

// Compare returns the latest offer per shop for a SKU, cheapest first.
// An unknown SKU yields a zero Comparison and no error.
func (s *ComparisonService) Compare(ctx context.Context, sku string) (driving.Comparison, error) {
	product, err := s.products.GetBySKU(ctx, sku)
	if errors.Is(err, domain.ErrNotFound) {
		return driving.Comparison{}, nil
	}
	if err != nil {
		return driving.Comparison{}, fmt.Errorf("get product %s: %w", sku, err)
	}

	offers, err := s.prices.LatestForProduct(ctx, sku)
	if err != nil {
		return driving.Comparison{}, fmt.Errorf("latest offers for %s: %w", sku, err)
	}

	comparison := driving.Comparison{Product: product, Offers: offers}
	if len(offers) > 0 {
		// Offers arrive sorted ascending by price.
		comparison.Cheapest = &offers[0]
	}
	return comparison, nil
}

// History returns the SKU's observations, newest first.
func (s *ComparisonService) History(ctx context.Context, sku string, limit int) ([]domain.PricePoint, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	points, err := s.prices.HistoryForProduct(ctx, sku, limit)
	if err != nil {
		return nil, fmt.Errorf("history for %s: %w", sku, err)
	}
	return points, nil
}

// CheapestByCategory returns the cheapest current offers across a
// category, ascending by price.
func (s *ComparisonService) CheapestByCategory(ctx context.Context, category domain.Category, limit int) ([]domain.PricePoint, error) {
	if limit <= 0 {
		limit = DefaultCheapestLimit
	}
	points, err := s.prices.CheapestByCategory(ctx, category, limit)
	if err != nil {
		return nil, fmt.Errorf("cheapest in %s: %w", category, err)
	}
	return points, nil
}
