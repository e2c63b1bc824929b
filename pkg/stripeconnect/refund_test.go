package stripeconnect

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefund(t *testing.T) {
	var captured url.Values
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/refunds", r.URL.Path)
		require.NoError(t, r.ParseForm())
		captured = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"re_1","status":"succeeded","amount":598}`))
	})

	client, _ := newTestClient(t, baseConfig(), handler)

	refund, err := client.Refund(context.Background(), RefundParams{
		PaymentIntentID:   "pi_123",
		AmountCents:       598,
		Reason:            "requested_by_customer",
		RefundPlatformFee: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_123", captured.Get("payment_intent"))
	assert.Equal(t, "598", captured.Get("amount"))
	assert.Equal(t, "requested_by_customer", captured.Get("reason"))
	assert.Equal(t, "true", captured.Get("refund_application_fee"))
	assert.Equal(t, "true", captured.Get("reverse_transfer"))

	assert.Equal(t, "re_1", refund.ID)
	assert.Equal(t, "succeeded", refund.Status)
	assert.Equal(t, 598, refund.AmountRefunded)
}

func TestRefundFullAmountOmitsAmountField(t *testing.T) {
	var captured url.Values
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		captured = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"re_2","status":"succeeded","amount":1999}`))
	})

	client, _ := newTestClient(t, baseConfig(), handler)

	_, err := client.Refund(context.Background(), RefundParams{PaymentIntentID: "pi_full"})
	require.NoError(t, err)
	assert.False(t, captured.Has("amount"))
	assert.False(t, captured.Has("refund_application_fee"))
}

func TestRefundValidation(t *testing.T) {
	client, _ := newTestClient(t, baseConfig(), http.NotFoundHandler())

	_, err := client.Refund(context.Background(), RefundParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment intent id is required")

	_, err = client.Refund(context.Background(), RefundParams{PaymentIntentID: "pi_x", AmountCents: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestAccountBalance(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/balance", r.URL.Path)
		require.Equal(t, "acct_seller", r.Header.Get("Stripe-Account"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"available":[{"amount":4200,"currency":"usd"}],"pending":[{"amount":598,"currency":"usd"}]}`))
	})

	client, _ := newTestClient(t, baseConfig(), handler)

	balance, err := client.AccountBalance(context.Background(), "acct_seller")
	require.NoError(t, err)
	assert.Equal(t, "acct_seller", balance.AccountID)
	assert.Equal(t, 4200, balance.Available)
	assert.Equal(t, 598, balance.Pending)
	assert.Equal(t, "usd", balance.Currency)
}

func TestAccountBalanceRequiresAccountID(t *testing.T) {
	client, _ := newTestClient(t, baseConfig(), http.NotFoundHandler())
	_, err := client.AccountBalance(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account id is required")
}
