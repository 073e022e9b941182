// Package memory provides in-memory store implementations used by
// tests and by the dev storage backend. All stores are safe for
// concurrent use.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
)

// Ensure ProductStore implements the interface.
var _ driven.ProductStore = (*ProductStore)(nil)

// ProductStore is an in-memory implementation of driven.ProductStore.
type ProductStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product // keyed by SKU
}

// NewProductStore creates a new in-memory product store.
func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[string]domain.Product)}
}

// Upsert inserts or updates a product keyed by SKU.
func (s *ProductStore) Upsert(_ context.Context, product domain.Product) (string, error) {
	if product.SKU == "" {
		return "", domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.products[product.SKU]; ok {
		product.ID = existing.ID
	} else {
		product.ID = uuid.NewString()
	}
	s.products[product.SKU] = product
	return product.ID, nil
}

// GetBySKU retrieves a product by SKU.
func (s *ProductStore) GetBySKU(_ context.Context, sku string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[sku]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &product, nil
}

// Search returns products matching query by name, or all when empty.
func (s *ProductStore) Search(_ context.Context, query string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	result := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		if needle == "" || strings.Contains(strings.ToLower(product.Name), needle) {
			result = append(result, product)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SKU < result[j].SKU })
	return result, nil
}

// category returns a product's category for cross-store queries.
func (s *ProductStore) category(sku string) (domain.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.products[sku]
	return product.Category, ok
}
