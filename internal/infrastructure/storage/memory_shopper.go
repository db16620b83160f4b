package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/domain/repository"
)

type shopperState struct {
	cart     map[string]int // product ID -> quantity
	wishlist []string       // insertion order
}

type memoryShopperRepository struct {
	mu       sync.RWMutex
	shoppers map[int64]*shopperState
}

// NewMemoryShopperRepository in-memory cart and wishlist store
func NewMemoryShopperRepository() repository.ShopperRepository {
	return &memoryShopperRepository{
		shoppers: make(map[int64]*shopperState),
	}
}

// state must be called with mu held for writing
func (m *memoryShopperRepository) state(userID int64) *shopperState {
	s, ok := m.shoppers[userID]
	if !ok {
		s = &shopperState{cart: make(map[string]int)}
		m.shoppers[userID] = s
	}
	return s
}

func (m *memoryShopperRepository) AddToCart(ctx context.Context, userID int64, product entity.Product, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("invalid quantity %d", quantity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state(userID).cart[product.ID] += quantity
	return nil
}

func (m *memoryShopperRepository) CartCount(ctx context.Context, userID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.shoppers[userID]
	if !ok {
		return 0, nil
	}
	total := 0
	for _, qty := range s.cart {
		total += qty
	}
	return total, nil
}

func (m *memoryShopperRepository) CartLines(ctx context.Context, userID int64) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lines := make(map[string]int)
	if s, ok := m.shoppers[userID]; ok {
		for id, qty := range s.cart {
			lines[id] = qty
		}
	}
	return lines, nil
}

func (m *memoryShopperRepository) ToggleWishlist(ctx context.Context, userID int64, productID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state(userID)
	for i, id := range s.wishlist {
		if id == productID {
			s.wishlist = append(s.wishlist[:i], s.wishlist[i+1:]...)
			return false, nil
		}
	}
	s.wishlist = append(s.wishlist, productID)
	return true, nil
}

func (m *memoryShopperRepository) IsWishlisted(ctx context.Context, userID int64, productID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.shoppers[userID]
	if !ok {
		return false, nil
	}
	for _, id := range s.wishlist {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryShopperRepository) WishlistCount(ctx context.Context, userID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.shoppers[userID]; ok {
		return len(s.wishlist), nil
	}
	return 0, nil
}

func (m *memoryShopperRepository) Wishlist(ctx context.Context, userID int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.shoppers[userID]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), s.wishlist...), nil
}
