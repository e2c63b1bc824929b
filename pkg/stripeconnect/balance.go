package stripeconnect

import (
	"context"

	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
)

// AccountBalance reads a connected account's balance via the Stripe-Account
// header. Amounts are summed across currencies' first bucket; Stripe returns
// one bucket per currency and connected merchants here settle in a single
// currency.
func (c *Client) AccountBalance(ctx context.Context, accountID string) (*Balance, error) {
	if accountID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}

	var resp struct {
		Available []struct {
			Amount   int    `json:"amount"`
			Currency string `json:"currency"`
		} `json:"available"`
		Pending []struct {
			Amount   int    `json:"amount"`
			Currency string `json:"currency"`
		} `json:"pending"`
	}
	headers := map[string]string{"Stripe-Account": accountID}
	if err := c.getJSON(ctx, c.apiBase+"/balance", headers, &resp); err != nil {
		return nil, err
	}

	balance := &Balance{AccountID: accountID}
	if len(resp.Available) > 0 {
		balance.Available = resp.Available[0].Amount
		balance.Currency = resp.Available[0].Currency
	}
	if len(resp.Pending) > 0 {
		balance.Pending = resp.Pending[0].Amount
		if balance.Currency == "" {
			balance.Currency = resp.Pending[0].Currency
		}
	}
	return balance, nil
}
