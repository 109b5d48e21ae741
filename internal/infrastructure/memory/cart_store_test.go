package memory

import (
	"context"
	"testing"

	"github.com/shopfront/checkout/internal/domain/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartStore_GetUnknownUserIsEmpty(t *testing.T) {
	s := NewCartStore()

	snapshot, err := s.Get(context.Background(), "nobody")

	require.NoError(t, err)
	assert.True(t, snapshot.Empty())
}

func TestCartStore_AddMergesSameProduct(t *testing.T) {
	s := NewCartStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "alice", cart.Item{ProductID: "sku-1", Quantity: 1, UnitPrice: 1500}))
	require.NoError(t, s.Add(ctx, "alice", cart.Item{ProductID: "sku-1", Quantity: 2, UnitPrice: 1500}))
	require.NoError(t, s.Add(ctx, "alice", cart.Item{ProductID: "sku-2", Quantity: 1, UnitPrice: 4200}))

	snapshot, err := s.Get(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 2)
	assert.Equal(t, 3, snapshot.Items[0].Quantity)
	assert.Equal(t, int64(8700), snapshot.Total)
}

func TestCartStore_DeleteRemovesCart(t *testing.T) {
	s := NewCartStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "alice", cart.Item{ProductID: "sku-1", Quantity: 1, UnitPrice: 100}))
	require.NoError(t, s.Delete(ctx, "alice"))

	snapshot, err := s.Get(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, snapshot.Empty())
}

func TestCartStore_DeleteUnknownUserFails(t *testing.T) {
	s := NewCartStore()

	err := s.Delete(context.Background(), "nobody")

	require.ErrorIs(t, err, cart.ErrNotFound)
}
