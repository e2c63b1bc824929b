package stripeconnect

import "time"

// LineItem is one purchasable row in a checkout session. Unit prices are
// integer minor units (cents); the provider renders its own total from them.
type LineItem struct {
	Name        string
	Description string
	AmountCents int
	Currency    string
	Quantity    int
	ImageURL    string
}

// CheckoutParams describe a hosted checkout session request.
type CheckoutParams struct {
	OrderID       string
	CustomerEmail string
	LineItems     []LineItem
	SuccessURL    string
	CancelURL     string
	// ConnectedAccountID routes the charge to a merchant account
	// (destination charge). Empty means a direct charge to the platform.
	ConnectedAccountID string
	// PlatformFee overrides the client's default policy for this session.
	PlatformFee *FeePolicy
	Metadata    map[string]string
}

// Session is the provider's view of a hosted checkout session.
type Session struct {
	OrderID          string
	ProviderID       string
	URL              string
	Complete         bool
	AmountTotalCents int
	PlatformFeeCents int
	SellerNetCents   int
	ExpiresAt        time.Time
}

// OAuthParams configure the authorization redirect for account linking.
type OAuthParams struct {
	RedirectURI string
	// State is an opaque CSRF token bound to the requester's session; the
	// SDK passes it through untouched and never stores it.
	State        string
	PrefillEmail string
	// Express requests the lightweight onboarding variant with suggested
	// capabilities.
	Express bool
}

// ConnectedAccount is the provider-side record of a linked merchant.
type ConnectedAccount struct {
	AccountID    string
	Status       string
	Email        string
	Country      string
	BusinessName string
	ConnectedAt  time.Time
}

// RefundParams describe a full or partial refund of a payment.
type RefundParams struct {
	PaymentIntentID string
	// AmountCents of zero refunds the full charge.
	AmountCents       int
	Reason            string
	RefundPlatformFee bool
}

// Refund is the provider's response to a refund request.
type Refund struct {
	ID             string
	Status         string
	AmountRefunded int
}

// Balance reports a connected account's funds in minor units.
type Balance struct {
	AccountID string
	Available int
	Pending   int
	Currency  string
}
