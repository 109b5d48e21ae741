package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	appcheckout "github.com/shopfront/checkout/internal/application/checkout"
	"github.com/shopfront/checkout/internal/domain/cart"
	"github.com/shopfront/checkout/internal/domain/payment"
	"github.com/shopfront/checkout/internal/observability"
	"github.com/shopfront/checkout/internal/observability/logctx"
)

const componentHTTPHandler = "http_server"

// CheckoutService is the slice of the checkout use case the transport needs.
type CheckoutService interface {
	Execute(ctx context.Context, in appcheckout.Input) (*appcheckout.Result, error)
}

type Handler struct {
	checkout CheckoutService
	carts    cart.Store
	log      observability.Logger
	tel      observability.Observability
}

func NewHandler(checkout CheckoutService, carts cart.Store, tel observability.Observability) *Handler {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Handler{
		checkout: checkout,
		carts:    carts,
		log:      tel.Logger().With(observability.F("component", componentHTTPHandler)),
		tel:      tel,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(h.requestMetrics)

	r.Post("/checkout", h.handleCheckout)
	r.Get("/cart/{userID}", h.handleGetCart)
	r.Put("/cart/{userID}/items", h.handleAddCartItem)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

type cardRequest struct {
	Number string `json:"number"`
	Holder string `json:"holder"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
}

type checkoutRequest struct {
	UserID string      `json:"user_id"`
	Card   cardRequest `json:"card"`
}

type checkoutResponse struct {
	OrderID string `json:"order_id"`
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, errors.New("user_id is required"))
		return
	}

	ctx := logctx.With(r.Context(), h.log.With(observability.F("user_id", req.UserID)))
	result, err := h.checkout.Execute(ctx, appcheckout.Input{
		UserID: cart.UserID(req.UserID),
		Card: payment.Card{
			Number: req.Card.Number,
			Holder: req.Card.Holder,
			Expiry: req.Card.Expiry,
			CVC:    req.Card.CVC,
		},
	})
	if err != nil {
		writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkoutResponse{OrderID: string(result.OrderID)})
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

func (h *Handler) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "userID")

	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	item, err := cart.NewItem(req.ProductID, req.Quantity, req.UnitPrice)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.carts.Add(r.Context(), cart.UserID(user), item); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type cartItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

type cartResponse struct {
	Items []cartItemResponse `json:"items"`
	Total int64              `json:"total"`
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "userID")

	snapshot, err := h.carts.Get(r.Context(), cart.UserID(user))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	items := make([]cartItemResponse, 0, len(snapshot.Items))
	for _, it := range snapshot.Items {
		items = append(items, cartItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		})
	}
	writeJSON(w, http.StatusOK, cartResponse{Items: items, Total: snapshot.Total})
}

type errorResponse struct {
	Error           string `json:"error"`
	PaymentCaptured bool   `json:"payment_captured,omitempty"`
}

// writeCheckoutError maps the checkout taxonomy onto status codes. The
// order-pending case tells the caller the charge was captured so support can
// answer "where is my money" truthfully.
func writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appcheckout.ErrEmptyCart):
		writeJSON(w, http.StatusConflict, errorResponse{Error: appcheckout.ErrEmptyCart.Error()})
	case errors.Is(err, appcheckout.ErrPaymentDeclined):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{Error: appcheckout.ErrPaymentDeclined.Error()})
	case errors.Is(err, appcheckout.ErrOrderPending):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:           appcheckout.ErrOrderPending.Error(),
			PaymentCaptured: true,
		})
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (h *Handler) requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(rec.status)

		h.tel.Metrics().Counter(observability.MHTTPRequests).Add(1,
			observability.L("method", r.Method),
			observability.L("route", route),
			observability.L("status", status),
		)
		h.tel.Metrics().Histogram(observability.MHTTPRequestDuration).Observe(time.Since(start).Seconds(),
			observability.L("method", r.Method),
			observability.L("route", route),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func decodeJSON(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
