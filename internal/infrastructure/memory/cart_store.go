package memory

import (
	"context"
	"sync"

	"github.com/shopfront/checkout/internal/domain/cart"
)

// CartStore keeps carts in process memory. Default store for local runs and
// tests; the Redis store replaces it in deployments.
type CartStore struct {
	mu    sync.RWMutex
	carts map[cart.UserID][]cart.Item
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[cart.UserID][]cart.Item)}
}

func (s *CartStore) Get(ctx context.Context, user cart.UserID) (cart.Snapshot, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	return cart.NewSnapshot(s.carts[user]), nil
}

func (s *CartStore) Add(ctx context.Context, user cart.UserID, item cart.Item) error {
	_ = ctx
	if item.Quantity <= 0 {
		return cart.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[user]
	for i, existing := range items {
		if existing.ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			items[i].UnitPrice = item.UnitPrice
			s.carts[user] = items
			return nil
		}
	}
	s.carts[user] = append(items, item)
	return nil
}

func (s *CartStore) Delete(ctx context.Context, user cart.UserID) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[user]; !ok {
		return cart.ErrNotFound
	}
	delete(s.carts, user)
	return nil
}
