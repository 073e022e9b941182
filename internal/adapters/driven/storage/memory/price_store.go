package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
)

// Ensure PriceStore implements the interface.
var _ driven.PriceStore = (*PriceStore)(nil)

// PriceStore is an in-memory implementation of driven.PriceStore.
// Observation ids are the insertion sequence, so same-timestamp
// "latest" ties resolve to the last inserted observation, matching the
// SQL adapters.
type PriceStore struct {
	// products resolves SKU to category for CheapestByCategory.
	products *ProductStore

	mu     sync.RWMutex
	points []domain.PricePoint
	nextID int
}

// NewPriceStore creates a new in-memory price store. products may be
// nil when CheapestByCategory is not exercised.
func NewPriceStore(products *ProductStore) *PriceStore {
	return &PriceStore{products: products, nextID: 1}
}

// Add appends one observation.
func (s *PriceStore) Add(_ context.Context, price domain.PricePoint, _, _ string) (string, error) {
	if price.ProductSKU == "" || price.Shop == "" {
		return "", domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	price.ID = strconv.Itoa(s.nextID)
	s.nextID++
	s.points = append(s.points, price)
	return price.ID, nil
}

// LatestForProduct returns each shop's most recent observation for the
// SKU, ascending by price.
func (s *PriceStore) LatestForProduct(_ context.Context, sku string) ([]domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := s.latestPerShop(sku)
	offers := make([]domain.PricePoint, 0, len(latest))
	for _, point := range latest {
		offers = append(offers, point)
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].Price < offers[j].Price })
	return offers, nil
}

// HistoryForProduct returns the SKU's observations newest first.
func (s *PriceStore) HistoryForProduct(_ context.Context, sku string, limit int) ([]domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var history []domain.PricePoint
	for _, point := range s.points {
		if point.ProductSKU == sku {
			history = append(history, point)
		}
	}
	sort.Slice(history, func(i, j int) bool {
		if !history[i].ObservedAt.Equal(history[j].ObservedAt) {
			return history[i].ObservedAt.After(history[j].ObservedAt)
		}
		return idOf(history[i]) > idOf(history[j])
	})
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

// CheapestByCategory returns the limit cheapest latest-per-(sku, shop)
// observations across the category.
func (s *PriceStore) CheapestByCategory(_ context.Context, category domain.Category, limit int) ([]domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skus := make(map[string]struct{})
	for _, point := range s.points {
		if _, seen := skus[point.ProductSKU]; seen {
			continue
		}
		if s.products != nil {
			if cat, ok := s.products.category(point.ProductSKU); !ok || cat != category {
				continue
			}
		}
		skus[point.ProductSKU] = struct{}{}
	}

	var cheapest []domain.PricePoint
	for sku := range skus {
		for _, point := range s.latestPerShop(sku) {
			cheapest = append(cheapest, point)
		}
	}
	sort.Slice(cheapest, func(i, j int) bool { return cheapest[i].Price < cheapest[j].Price })
	if limit > 0 && len(cheapest) > limit {
		cheapest = cheapest[:limit]
	}
	return cheapest, nil
}

// LatestForProducts returns latest observations per shop for each SKU.
func (s *PriceStore) LatestForProducts(_ context.Context, skus []string) (map[string][]domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string][]domain.PricePoint, len(skus))
	for _, sku := range skus {
		latest := s.latestPerShop(sku)
		if len(latest) == 0 {
			continue
		}
		offers := make([]domain.PricePoint, 0, len(latest))
		for _, point := range latest {
			offers = append(offers, point)
		}
		sort.Slice(offers, func(i, j int) bool { return offers[i].Price < offers[j].Price })
		result[sku] = offers
	}
	return result, nil
}

// latestPerShop picks the most recent observation per shop for a SKU.
// Caller must hold the read lock.
func (s *PriceStore) latestPerShop(sku string) map[domain.ShopCode]domain.PricePoint {
	latest := make(map[domain.ShopCode]domain.PricePoint)
	for _, point := range s.points {
		if point.ProductSKU != sku {
			continue
		}
		current, ok := latest[point.Shop]
		if !ok || point.ObservedAt.After(current.ObservedAt) ||
			(point.ObservedAt.Equal(current.ObservedAt) && idOf(point) > idOf(current)) {
			latest[point.Shop] = point
		}
	}
	return latest
}

func idOf(point domain.PricePoint) int {
	id, _ := strconv.Atoi(point.ID)
	return id
}
