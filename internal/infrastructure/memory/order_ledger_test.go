package memory

import (
	"context"
	"testing"

	"github.com/shopfront/checkout/internal/domain/cart"
	"github.com/shopfront/checkout/internal/domain/order"
	"github.com/shopfront/checkout/internal/infrastructure/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderLedger_CreateAndGet(t *testing.T) {
	l := NewOrderLedger(id.NewUUIDGenerator())
	ctx := context.Background()

	items := []cart.Item{{ProductID: "sku-1", Quantity: 2, UnitPrice: 1500}}
	orderID, err := l.Create(ctx, "alice", "pay-1", items, 3000)
	require.NoError(t, err)
	require.NotEmpty(t, orderID)

	got, err := l.Get(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, cart.UserID("alice"), got.UserID)
	assert.Equal(t, int64(3000), got.Total)
	assert.Len(t, got.Items, 1)
}

func TestOrderLedger_CreateRejectsNoItems(t *testing.T) {
	l := NewOrderLedger(id.NewUUIDGenerator())

	_, err := l.Create(context.Background(), "alice", "pay-1", nil, 0)

	require.ErrorIs(t, err, order.ErrNoItems)
}

func TestOrderLedger_GetUnknownFails(t *testing.T) {
	l := NewOrderLedger(id.NewUUIDGenerator())

	_, err := l.Get(context.Background(), "missing")

	require.ErrorIs(t, err, order.ErrNotFound)
}
