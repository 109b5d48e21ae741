package payment

import (
	"context"
	"errors"

	"github.com/shopfront/checkout/internal/domain/cart"
)

var ErrDeclined = errors.New("payment: declined")

// ID is the processor's proof of a completed charge. Once obtained it is
// never invalidated or charged again.
type ID string

// Card carries the payment instrument for a single charge. It is never
// persisted by this service.
type Card struct {
	Number string
	Holder string
	Expiry string
	CVC    string
}

// Processor charges the given card for the full cart total.
type Processor interface {
	Process(ctx context.Context, user cart.UserID, total int64, card Card) (ID, error)
}
