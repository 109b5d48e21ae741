package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart is a precondition failure: nothing was charged, nothing
	// was logged, nothing was scheduled.
	ErrEmptyCart = errors.New("checkout: cart is empty, nothing to checkout")

	// ErrPaymentDeclined means the payment collaborator failed on every
	// attempt the retry policy allowed. No charge was captured; the caller
	// should fix the payment method. Never retried in the background.
	ErrPaymentDeclined = errors.New("checkout: payment failed")

	// ErrOrderPending means payment was captured but order creation
	// exhausted its retries. A detached retry keeps trying; the caller
	// should tell the customer the order is pending, not lost.
	ErrOrderPending = errors.New("checkout: order not yet created")
)

func paymentError(err error) error {
	return fmt.Errorf("%w: %w", ErrPaymentDeclined, err)
}

func orderError(err error) error {
	return fmt.Errorf("%w: %w", ErrOrderPending, err)
}
