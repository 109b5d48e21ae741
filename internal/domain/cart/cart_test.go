package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot_ComputesTotal(t *testing.T) {
	s := NewSnapshot([]Item{
		{ProductID: "sku-1", Quantity: 2, UnitPrice: 1500},
		{ProductID: "sku-2", Quantity: 1, UnitPrice: 4200},
	})

	assert.Equal(t, int64(7200), s.Total)
	assert.False(t, s.Empty())
}

func TestNewSnapshot_CopiesItems(t *testing.T) {
	items := []Item{{ProductID: "sku-1", Quantity: 1, UnitPrice: 100}}
	s := NewSnapshot(items)

	items[0].Quantity = 99

	assert.Equal(t, 1, s.Items[0].Quantity, "snapshot must not alias the caller's slice")
}

func TestNewSnapshot_Empty(t *testing.T) {
	assert.True(t, NewSnapshot(nil).Empty())
	assert.Equal(t, int64(0), NewSnapshot(nil).Total)
}

func TestNewItem_Validation(t *testing.T) {
	_, err := NewItem("sku-1", 0, 100)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewItem("sku-1", 1, -1)
	require.ErrorIs(t, err, ErrInvalidPrice)

	item, err := NewItem("sku-1", 3, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(750), item.Subtotal())
}
