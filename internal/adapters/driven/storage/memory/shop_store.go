package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
)

// Ensure ShopStore implements the interface.
var _ driven.ShopStore = (*ShopStore)(nil)

// ShopStore is an in-memory implementation of driven.ShopStore.
type ShopStore struct {
	mu    sync.RWMutex
	shops map[domain.ShopCode]domain.Shop
}

// NewShopStore creates a new in-memory shop store.
func NewShopStore() *ShopStore {
	return &ShopStore{shops: make(map[domain.ShopCode]domain.Shop)}
}

// Upsert inserts or updates a shop keyed by code.
func (s *ShopStore) Upsert(_ context.Context, shop domain.Shop) (string, error) {
	if shop.Code == "" {
		return "", domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.shops[shop.Code]; ok {
		shop.ID = existing.ID
	} else {
		shop.ID = uuid.NewString()
	}
	s.shops[shop.Code] = shop
	return shop.ID, nil
}

// List returns all registered shops ordered by code.
func (s *ShopStore) List(_ context.Context) ([]domain.Shop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Shop, 0, len(s.shops))
	for _, shop := range s.shops {
		result = append(result, shop)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// GetByCode returns a shop by its stable code.
func (s *ShopStore) GetByCode(_ context.Context, code domain.ShopCode) (*domain.Shop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shop, ok := s.shops[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &shop, nil
}
