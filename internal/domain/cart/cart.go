package cart

import "errors"

var (
	ErrNotFound        = errors.New("cart: not found")
	ErrInvalidQuantity = errors.New("cart: quantity must be greater than zero")
	ErrInvalidPrice    = errors.New("cart: unit price must be zero or greater")
)

// UserID identifies the customer owning a cart. Opaque, externally supplied.
type UserID string

// Item is an immutable (product, quantity, unit price) tuple. Prices are in
// minor currency units.
type Item struct {
	ProductID string
	Quantity  int
	UnitPrice int64
}

func NewItem(productID string, quantity int, unitPrice int64) (Item, error) {
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	if unitPrice < 0 {
		return Item{}, ErrInvalidPrice
	}
	return Item{ProductID: productID, Quantity: quantity, UnitPrice: unitPrice}, nil
}

func (i Item) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// Snapshot is the full cart state captured once at the start of a checkout
// attempt. It is never re-fetched mid-flow, so concurrent cart mutation
// cannot re-price an attempt already in flight.
type Snapshot struct {
	Items []Item
	Total int64
}

func NewSnapshot(items []Item) Snapshot {
	var total int64
	copied := make([]Item, len(items))
	copy(copied, items)
	for _, it := range copied {
		total += it.Subtotal()
	}
	return Snapshot{Items: copied, Total: total}
}

func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}
