package checkout

import (
	"context"

	"github.com/shopfront/checkout/internal/domain/cart"
	"github.com/shopfront/checkout/internal/domain/order"
	"github.com/shopfront/checkout/internal/domain/payment"
)

// PaymentClient charges a card for the cart total.
type PaymentClient interface {
	payment.Processor
}

// Orders records a completed purchase against a captured payment.
type Orders interface {
	order.Ledger
}

// ShoppingCart is the narrow cart view the checkout flow needs: the snapshot
// at the start, the cleanup at the end. Cart mutation belongs elsewhere.
type ShoppingCart interface {
	Get(ctx context.Context, user cart.UserID) (cart.Snapshot, error)
	Delete(ctx context.Context, user cart.UserID) error
}

// Scheduler accepts a task for detached execution. Schedule returns
// immediately; the caller never observes the task's outcome. A no-op
// implementation is a valid substitute.
type Scheduler interface {
	Schedule(task func(ctx context.Context))
}
