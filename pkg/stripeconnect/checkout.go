package stripeconnect

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
)

// CreateCheckoutSession requests a hosted checkout session. Line items are
// passed per-row so the provider computes its own displayed total; the local
// total exists only for fee math and bookkeeping and matches what the
// provider will charge. When ConnectedAccountID is set the charge is routed
// there as a destination charge minus the platform fee.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*Session, error) {
	if len(params.LineItems) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}
	if params.SuccessURL == "" || params.CancelURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "success and cancel urls are required")
	}
	if params.OrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	total := 0
	for _, item := range params.LineItems {
		if item.AmountCents < 0 || item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line items need a non-negative amount and quantity >= 1")
		}
		total += item.AmountCents * item.Quantity
	}

	feeCents := 0
	if params.ConnectedAccountID != "" {
		policy := params.PlatformFee
		if policy == nil {
			policy = c.defaultFee
		}
		if policy != nil {
			if err := policy.Validate(); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "platform fee policy")
			}
			feeCents = policy.Fee(total)
		}
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}
	// Set after caller metadata so the correlation key cannot be clobbered.
	form.Set("metadata[order_id]", params.OrderID)

	if params.ConnectedAccountID != "" {
		form.Set("payment_intent_data[transfer_data][destination]", params.ConnectedAccountID)
		if feeCents > 0 {
			form.Set("payment_intent_data[application_fee_amount]", strconv.Itoa(feeCents))
		}
	}

	for i, item := range params.LineItems {
		currency := item.Currency
		if currency == "" {
			currency = "usd"
		}
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
		form.Set(prefix+"[price_data][currency]", currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.Itoa(item.AmountCents))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		if item.Description != "" {
			form.Set(prefix+"[price_data][product_data][description]", item.Description)
		}
		if item.ImageURL != "" {
			form.Set(prefix+"[price_data][product_data][images][0]", item.ImageURL)
		}
	}

	c.log(ctx, "checkout.create", map[string]any{
		"order_id":    params.OrderID,
		"line_items":  len(params.LineItems),
		"total_cents": total,
		"fee_cents":   feeCents,
		"destination": params.ConnectedAccountID,
	})

	var resp struct {
		ID        string `json:"id"`
		URL       string `json:"url"`
		ExpiresAt int64  `json:"expires_at"`
	}
	if err := c.postForm(ctx, c.apiBase+"/checkout/sessions", form, nil, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" || resp.URL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stripe returned an incomplete checkout session")
	}

	return &Session{
		OrderID:          params.OrderID,
		ProviderID:       resp.ID,
		URL:              resp.URL,
		AmountTotalCents: total,
		PlatformFeeCents: feeCents,
		SellerNetCents:   total - feeCents,
		ExpiresAt:        time.Unix(resp.ExpiresAt, 0),
	}, nil
}

// GetCheckoutSession retrieves a session by provider id, for status polling.
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	var resp struct {
		ID            string            `json:"id"`
		URL           string            `json:"url"`
		PaymentStatus string            `json:"payment_status"`
		AmountTotal   int               `json:"amount_total"`
		ExpiresAt     int64             `json:"expires_at"`
		Metadata      map[string]string `json:"metadata"`
	}
	if err := c.getJSON(ctx, c.apiBase+"/checkout/sessions/"+url.PathEscape(sessionID), nil, &resp); err != nil {
		return nil, err
	}

	return &Session{
		OrderID:          resp.Metadata["order_id"],
		ProviderID:       resp.ID,
		URL:              resp.URL,
		Complete:         resp.PaymentStatus == "paid",
		AmountTotalCents: resp.AmountTotal,
		ExpiresAt:        time.Unix(resp.ExpiresAt, 0),
	}, nil
}
