package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appcheckout "github.com/shopfront/checkout/internal/application/checkout"
	"github.com/shopfront/checkout/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCheckout struct {
	result *appcheckout.Result
	err    error
}

func (s *stubCheckout) Execute(_ context.Context, _ appcheckout.Input) (*appcheckout.Result, error) {
	return s.result, s.err
}

func newTestRouter(svc CheckoutService) http.Handler {
	return NewHandler(svc, memory.NewCartStore(), nil).Router()
}

func postCheckout(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const validCheckoutBody = `{"user_id":"alice","card":{"number":"4242424242424242","holder":"Alice","expiry":"12/30","cvc":"123"}}`

func TestHandleCheckout_Success(t *testing.T) {
	router := newTestRouter(&stubCheckout{result: &appcheckout.Result{OrderID: "ord-1"}})

	w := postCheckout(t, router, validCheckoutBody)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp checkoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ord-1", resp.OrderID)
}

func TestHandleCheckout_ErrorMapping(t *testing.T) {
	cases := []struct {
		name            string
		err             error
		wantStatus      int
		paymentCaptured bool
	}{
		{"empty cart", appcheckout.ErrEmptyCart, http.StatusConflict, false},
		{"payment declined", appcheckout.ErrPaymentDeclined, http.StatusPaymentRequired, false},
		{"order pending", appcheckout.ErrOrderPending, http.StatusServiceUnavailable, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubCheckout{err: tc.err})

			w := postCheckout(t, router, validCheckoutBody)

			require.Equal(t, tc.wantStatus, w.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.paymentCaptured, resp.PaymentCaptured)
		})
	}
}

func TestHandleCheckout_RejectsMissingUser(t *testing.T) {
	router := newTestRouter(&stubCheckout{result: &appcheckout.Result{OrderID: "ord-1"}})

	w := postCheckout(t, router, `{"card":{"number":"4242424242424242"}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartEndpoints_AddThenGet(t *testing.T) {
	router := newTestRouter(&stubCheckout{})

	add := httptest.NewRequest(http.MethodPut, "/cart/alice/items",
		bytes.NewBufferString(`{"product_id":"sku-1","quantity":2,"unit_price":1500}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, add)
	require.Equal(t, http.StatusNoContent, w.Code)

	get := httptest.NewRequest(http.MethodGet, "/cart/alice", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, get)
	require.Equal(t, http.StatusOK, w.Code)

	var resp cartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(3000), resp.Items[0].Subtotal)
	assert.Equal(t, int64(3000), resp.Total)
}

func TestCartEndpoints_RejectInvalidQuantity(t *testing.T) {
	router := newTestRouter(&stubCheckout{})

	add := httptest.NewRequest(http.MethodPut, "/cart/alice/items",
		bytes.NewBufferString(`{"product_id":"sku-1","quantity":0,"unit_price":1500}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, add)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
