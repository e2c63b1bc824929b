package stripeconnect

import (
	"context"
	"net/url"
	"time"

	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
)

// OAuthURL builds the hosted authorization URL that sends a merchant through
// Stripe's account-linking flow. The caller redirects the browser here; the
// merchant lands back on RedirectURI with a one-time code and the echoed
// state.
func (c *Client) OAuthURL(params OAuthParams) (string, error) {
	if c.clientID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "stripe client id is required for oauth")
	}
	if params.RedirectURI == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "redirect uri is required")
	}

	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.clientID)
	q.Set("scope", "read_write")
	q.Set("redirect_uri", params.RedirectURI)
	if params.State != "" {
		q.Set("state", params.State)
	}
	if params.PrefillEmail != "" {
		q.Set("stripe_user[email]", params.PrefillEmail)
	}
	if params.Express {
		q.Set("suggested_capabilities[]", "transfers")
	}

	return c.connectBase + "/oauth/authorize?" + q.Encode(), nil
}

// ExchangeCode swaps the one-time authorization code for the merchant's
// account id. The code is single use; a second exchange fails at the
// provider.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*ConnectedAccount, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "authorization code is required")
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_secret", c.secretKey)

	c.log(ctx, "oauth.exchange", map[string]any{"code": code})

	var resp struct {
		StripeUserID string `json:"stripe_user_id"`
		Livemode     bool   `json:"livemode"`
		Scope        string `json:"scope"`
	}
	if err := c.postForm(ctx, c.connectBase+"/oauth/token", form, nil, &resp); err != nil {
		return nil, err
	}
	if resp.StripeUserID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stripe oauth response missing stripe_user_id")
	}

	return &ConnectedAccount{
		AccountID:   resp.StripeUserID,
		Status:      "active",
		ConnectedAt: time.Now().UTC(),
	}, nil
}

// Account retrieves the current provider-side state of a connected account.
func (c *Client) Account(ctx context.Context, accountID string) (*ConnectedAccount, error) {
	if accountID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}

	var resp struct {
		ID               string `json:"id"`
		Email            string `json:"email"`
		Country          string `json:"country"`
		ChargesEnabled   bool   `json:"charges_enabled"`
		PayoutsEnabled   bool   `json:"payouts_enabled"`
		BusinessProfile  struct {
			Name string `json:"name"`
		} `json:"business_profile"`
		Created int64 `json:"created"`
	}
	if err := c.getJSON(ctx, c.apiBase+"/accounts/"+url.PathEscape(accountID), nil, &resp); err != nil {
		return nil, err
	}

	status := "pending"
	if resp.ChargesEnabled {
		status = "active"
	}
	return &ConnectedAccount{
		AccountID:    resp.ID,
		Status:       status,
		Email:        resp.Email,
		Country:      resp.Country,
		BusinessName: resp.BusinessProfile.Name,
		ConnectedAt:  time.Unix(resp.Created, 0),
	}, nil
}

// Deauthorize severs the platform's access to a connected account. The
// merchant keeps their Stripe account; only the link is revoked.
func (c *Client) Deauthorize(ctx context.Context, accountID string) error {
	if c.clientID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe client id is required for oauth")
	}
	if accountID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("stripe_user_id", accountID)

	c.log(ctx, "oauth.deauthorize", map[string]any{"account_id": accountID})
	return c.postForm(ctx, c.connectBase+"/oauth/deauthorize", form, nil, nil)
}
