package paygate

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopfront/checkout/internal/domain/cart"
	"github.com/shopfront/checkout/internal/domain/payment"
	"github.com/shopfront/checkout/internal/infrastructure/id"
	"github.com/shopfront/checkout/internal/observability"
	"github.com/shopfront/checkout/internal/observability/logctx"
)

const componentGateway = "payment_gateway"

// Gateway is the canonical PaymentClient implementation. It simulates a card
// network: structurally unusable cards are declined, everything else is
// charged and receipted with a fresh payment id. A real PSP SDK would slot in
// behind the same interface.
type Gateway struct {
	ids id.Generator
	log observability.Logger
}

func New(ids id.Generator, logger observability.Logger) *Gateway {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Gateway{
		ids: ids,
		log: logger.With(observability.F("component", componentGateway)),
	}
}

func (g *Gateway) Process(ctx context.Context, user cart.UserID, total int64, card payment.Card) (payment.ID, error) {
	logger := logctx.FromOr(ctx, g.log)

	if err := validateCard(card); err != nil {
		logger.Warn("charge_declined",
			observability.F("user_id", string(user)),
			observability.F("total", total),
			observability.F("error", err.Error()),
		)
		return "", err
	}

	paymentID := payment.ID(g.ids.NewID())
	logger.Info("charge_captured",
		observability.F("user_id", string(user)),
		observability.F("total", total),
		observability.F("payment_id", string(paymentID)),
	)
	return paymentID, nil
}

func validateCard(card payment.Card) error {
	number := strings.ReplaceAll(card.Number, " ", "")
	if number == "" {
		return fmt.Errorf("%w: missing card number", payment.ErrDeclined)
	}
	if len(number) < 12 || len(number) > 19 {
		return fmt.Errorf("%w: card number length", payment.ErrDeclined)
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: card number must be numeric", payment.ErrDeclined)
		}
	}
	if card.Expiry == "" {
		return fmt.Errorf("%w: missing expiry", payment.ErrDeclined)
	}
	return nil
}
