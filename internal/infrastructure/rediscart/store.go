package rediscart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopfront/checkout/internal/domain/cart"
)

const keyPrefix = "cart:"

// Store keeps one JSON-encoded item list per user. Carts are working state,
// not records; they expire after ttl.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func New(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl}
}

type storedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

func key(user cart.UserID) string { return keyPrefix + string(user) }

func (s *Store) Get(ctx context.Context, user cart.UserID) (cart.Snapshot, error) {
	raw, err := s.rdb.Get(ctx, key(user)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.NewSnapshot(nil), nil
	}
	if err != nil {
		return cart.Snapshot{}, fmt.Errorf("rediscart: get: %w", err)
	}

	var stored []storedItem
	if err := json.Unmarshal(raw, &stored); err != nil {
		return cart.Snapshot{}, fmt.Errorf("rediscart: decode: %w", err)
	}

	items := make([]cart.Item, 0, len(stored))
	for _, it := range stored {
		items = append(items, cart.Item{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return cart.NewSnapshot(items), nil
}

func (s *Store) Add(ctx context.Context, user cart.UserID, item cart.Item) error {
	if item.Quantity <= 0 {
		return cart.ErrInvalidQuantity
	}

	snapshot, err := s.Get(ctx, user)
	if err != nil {
		return err
	}

	stored := make([]storedItem, 0, len(snapshot.Items)+1)
	merged := false
	for _, it := range snapshot.Items {
		si := storedItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
		if it.ProductID == item.ProductID {
			si.Quantity += item.Quantity
			si.UnitPrice = item.UnitPrice
			merged = true
		}
		stored = append(stored, si)
	}
	if !merged {
		stored = append(stored, storedItem{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: item.UnitPrice})
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("rediscart: encode: %w", err)
	}
	if err := s.rdb.Set(ctx, key(user), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("rediscart: set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, user cart.UserID) error {
	n, err := s.rdb.Del(ctx, key(user)).Result()
	if err != nil {
		return fmt.Errorf("rediscart: del: %w", err)
	}
	if n == 0 {
		return cart.ErrNotFound
	}
	return nil
}
