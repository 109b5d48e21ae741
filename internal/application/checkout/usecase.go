package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/shopfront/checkout/internal/domain/cart"
	"github.com/shopfront/checkout/internal/domain/order"
	"github.com/shopfront/checkout/internal/domain/payment"
	"github.com/shopfront/checkout/internal/observability"
	"github.com/shopfront/checkout/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	checkoutService = "checkout-service"
	useCaseCheckout = "checkout.execute"
	spanPrefix      = "UC."

	opProcessPayment = "payment.process"
	opCreateOrder    = "order.create"
)

// UseCase orchestrates one checkout attempt: cart snapshot, payment, order
// creation, cart cleanup. Payment strictly precedes order creation; cart
// deletion never alters the result. The only fork in control flow is the
// detached order retry scheduled when order creation is exhausted.
type UseCase struct {
	carts    ShoppingCart
	payments PaymentClient
	orders   Orders
	sched    Scheduler
	policy   Policy
	tel      observability.Observability

	log observability.Logger

	reqCounter   observability.Counter   // checkout_requests_total{outcome}
	durHistogram observability.Histogram // checkout_duration_seconds
	retryCounter observability.Counter   // retry_attempts_total{operation}
	reschedules  observability.Counter   // background_reschedules_total
}

// New wires the collaborators required to execute a checkout.
func New(
	carts ShoppingCart,
	payments PaymentClient,
	orders Orders,
	sched Scheduler,
	policy Policy,
	tel observability.Observability,
) *UseCase {
	if tel == nil {
		tel = observability.Nop()
	}

	baseLog := tel.Logger().With(
		observability.F("service", checkoutService),
	)
	metrics := tel.Metrics()

	return &UseCase{
		carts:        carts,
		payments:     payments,
		orders:       orders,
		sched:        sched,
		policy:       policy,
		tel:          tel,
		log:          baseLog,
		reqCounter:   metrics.Counter(observability.MCheckoutRequests),
		durHistogram: metrics.Histogram(observability.MCheckoutDuration),
		retryCounter: metrics.Counter(observability.MRetryAttempts),
		reschedules:  metrics.Counter(observability.MBackgroundReschedules),
	}
}

type Input struct {
	UserID cart.UserID
	Card   payment.Card
}

type Result struct {
	OrderID order.ID
}

// Execute runs one checkout attempt for one user and one cart snapshot.
// It fails with ErrEmptyCart, ErrPaymentDeclined, or ErrOrderPending; no
// other failure kind reaches the caller on the modeled paths. Two identical
// calls perform two charges: checkout is deliberately not idempotent.
func (uc *UseCase) Execute(ctx context.Context, in Input) (_ *Result, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(
		observability.F("use_case", useCaseCheckout),
		observability.F("user_id", string(in.UserID)),
	)

	ctx, span := uc.tel.Tracer().Start(ctx, spanPrefix+"Checkout",
		attribute.String("use_case", useCaseCheckout),
		attribute.String("checkout.user_id", string(in.UserID)),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"

	defer func() {
		lat := time.Since(start).Seconds()

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, statusText)
		} else {
			span.SetStatus(codes.Ok, statusText)
		}
		span.End()

		if uc.reqCounter != nil {
			uc.reqCounter.Add(1, observability.L("outcome", outcome))
		}
		if uc.durHistogram != nil {
			uc.durHistogram.Observe(lat)
		}
	}()

	policy := uc.policy
	policy.OnRetry = func(operation string, _ int, _ error) {
		if uc.retryCounter != nil {
			uc.retryCounter.Add(1, observability.L("operation", operation))
		}
	}

	// Snapshot the cart exactly once. Re-fetching mid-flow would race with
	// concurrent cart mutation and re-price the attempt.
	snapshot, err := uc.carts.Get(ctx, in.UserID)
	if err != nil {
		outcome, statusText = "error", "CART_FETCH_FAILED"
		return nil, fmt.Errorf("checkout: fetch cart: %w", err)
	}

	// Pure precondition, not a retried operation: nothing is charged,
	// logged, or scheduled for an empty cart.
	if snapshot.Empty() {
		outcome, statusText = "error", "EMPTY_CART"
		return nil, ErrEmptyCart
	}

	paymentID, err := Do(ctx, policy, logger, opProcessPayment, func(ctx context.Context) (payment.ID, error) {
		return uc.payments.Process(ctx, in.UserID, snapshot.Total, in.Card)
	})
	if err != nil {
		// A failed charge is never re-attempted outside the caller's
		// awareness, so this path schedules nothing.
		outcome, statusText = "error", "PAYMENT_DECLINED"
		return nil, paymentError(err)
	}
	span.SetAttributes(attribute.String("checkout.payment_id", string(paymentID)))

	orderID, err := Do(ctx, policy, logger, opCreateOrder, func(ctx context.Context) (order.ID, error) {
		return uc.orders.Create(ctx, in.UserID, paymentID, snapshot.Items, snapshot.Total)
	})
	if err != nil {
		// The charge is captured; losing it is worse than telling the
		// caller the truth. Keep trying detached from this call.
		logger.Warn("order_create_rescheduled",
			observability.F("payment_id", string(paymentID)),
			observability.F("error", err.Error()),
		)
		if uc.reschedules != nil {
			uc.reschedules.Add(1)
		}
		uc.sched.Schedule(uc.orderRetryTask(in.UserID, paymentID, snapshot))

		outcome, statusText = "error", "ORDER_PENDING"
		return nil, orderError(err)
	}
	span.SetAttributes(attribute.String("checkout.order_id", string(orderID)))

	// Best-effort housekeeping. A leftover cart is an annoyance, not a
	// failed checkout.
	if err := uc.carts.Delete(ctx, in.UserID); err != nil {
		logger.Warn("cart_cleanup_failed",
			observability.F("order_id", string(orderID)),
			observability.F("error", err.Error()),
		)
	}

	logger.Info("checkout_completed",
		observability.F("order_id", string(orderID)),
		observability.F("payment_id", string(paymentID)),
		observability.F("total", snapshot.Total),
		observability.F("latency_seconds", time.Since(start).Seconds()),
	)
	return &Result{OrderID: orderID}, nil
}

// orderRetryTask builds the detached order-creation retry. Its outcome is
// handled entirely by logging; the originating call has already returned.
func (uc *UseCase) orderRetryTask(user cart.UserID, paymentID payment.ID, snapshot cart.Snapshot) func(ctx context.Context) {
	logger := uc.log.With(
		observability.F("use_case", "checkout.order_retry"),
		observability.F("user_id", string(user)),
		observability.F("payment_id", string(paymentID)),
	)

	return func(ctx context.Context) {
		orderID, err := Do(ctx, uc.policy, logger, opCreateOrder, func(ctx context.Context) (order.ID, error) {
			return uc.orders.Create(ctx, user, paymentID, snapshot.Items, snapshot.Total)
		})
		if err != nil {
			logger.Error("order_retry_exhausted",
				observability.F("error", err.Error()),
			)
			return
		}

		logger.Info("order_retry_succeeded",
			observability.F("order_id", string(orderID)),
		)
		if err := uc.carts.Delete(ctx, user); err != nil {
			logger.Warn("cart_cleanup_failed",
				observability.F("order_id", string(orderID)),
				observability.F("error", err.Error()),
			)
		}
	}
}
