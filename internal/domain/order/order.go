package order

import (
	"context"
	"errors"
	"time"

	"github.com/shopfront/checkout/internal/domain/cart"
	"github.com/shopfront/checkout/internal/domain/payment"
)

var (
	ErrNotFound = errors.New("order: not found")
	ErrNoItems  = errors.New("order: at least one item is required")
)

type ID string

type Order struct {
	ID        ID
	UserID    cart.UserID
	PaymentID payment.ID
	Items     []cart.Item
	Total     int64
	CreatedAt time.Time
}

// Ledger records completed purchases. Create is the only operation the
// checkout flow uses; it binds a captured payment to a new order.
type Ledger interface {
	Create(ctx context.Context, user cart.UserID, paymentID payment.ID, items []cart.Item, total int64) (ID, error)
}
