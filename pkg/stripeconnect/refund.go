package stripeconnect

import (
	"context"
	"net/url"
	"strconv"

	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
)

// Refund reverses a payment, fully or partially. For destination charges the
// platform fee is returned alongside when RefundPlatformFee is set, so the
// merchant is not left covering the platform's cut.
func (c *Client) Refund(ctx context.Context, params RefundParams) (*Refund, error) {
	if params.PaymentIntentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id is required")
	}
	if params.AmountCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund amount must not be negative")
	}

	form := url.Values{}
	form.Set("payment_intent", params.PaymentIntentID)
	if params.AmountCents > 0 {
		form.Set("amount", strconv.Itoa(params.AmountCents))
	}
	if params.Reason != "" {
		form.Set("reason", params.Reason)
	}
	if params.RefundPlatformFee {
		form.Set("refund_application_fee", "true")
		form.Set("reverse_transfer", "true")
	}

	c.log(ctx, "refund.create", map[string]any{
		"payment_intent": params.PaymentIntentID,
		"amount_cents":   params.AmountCents,
	})

	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount int    `json:"amount"`
	}
	if err := c.postForm(ctx, c.apiBase+"/refunds", form, nil, &resp); err != nil {
		return nil, err
	}

	return &Refund{
		ID:             resp.ID,
		Status:         resp.Status,
		AmountRefunded: resp.Amount,
	}, nil
}
