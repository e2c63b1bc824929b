package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trndfy/samplevault-backend/internal/catalog"
	"github.com/trndfy/samplevault-backend/internal/orders"
	"github.com/trndfy/samplevault-backend/pkg/db/models"
	"github.com/trndfy/samplevault-backend/pkg/enums"
	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
	"github.com/trndfy/samplevault-backend/pkg/logger"
	"github.com/trndfy/samplevault-backend/pkg/stripeconnect"
)

// Storefront-facing validation messages; the checkout endpoint returns these
// verbatim as plain text.
const (
	MsgCartEmpty    = "Cart is empty"
	MsgInvalidEmail = "Invalid user email"
	MsgNoValidItems = "No valid items"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionCreator interface {
	CreateCheckoutSession(ctx context.Context, params stripeconnect.CheckoutParams) (*stripeconnect.Session, error)
}

// CartItem is one row of the submitted cart.
type CartItem struct {
	SampleID int `json:"sampleId"`
	Quantity int `json:"quantity"`
}

// StartParams is the checkout request: who is buying and what.
type StartParams struct {
	Email  string
	UserID *uuid.UUID
	Items  []CartItem
}

// StartResult carries the redirect URL; the order id doubles as the
// download capability after payment.
type StartResult struct {
	OrderID uuid.UUID
	URL     string
}

// StatusResult is the polling view of an order.
type StatusResult struct {
	OrderID uuid.UUID         `json:"orderId"`
	Status  enums.OrderStatus `json:"status"`
	HasURL  bool              `json:"hasCheckoutUrl"`
}

// Service drives the cart-to-hosted-session flow.
type Service interface {
	Start(ctx context.Context, params StartParams) (*StartResult, error)
	Status(ctx context.Context, orderID uuid.UUID) (*StatusResult, error)
}

// URLs are the storefront pages a completed or abandoned session returns to.
type URLs struct {
	Success string
	Cancel  string
}

type service struct {
	repo     orders.Repository
	tx       txRunner
	payments sessionCreator
	urls     URLs
	logger   *logger.Logger
}

// NewService wires the checkout flow.
func NewService(repo orders.Repository, tx txRunner, payments sessionCreator, urls URLs, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payments client required")
	}
	if urls.Success == "" || urls.Cancel == "" {
		return nil, fmt.Errorf("success and cancel urls required")
	}
	return &service{repo: repo, tx: tx, payments: payments, urls: urls, logger: logg}, nil
}

func (s *service) Start(ctx context.Context, params StartParams) (*StartResult, error) {
	if len(params.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgCartEmpty)
	}

	email := strings.TrimSpace(params.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgInvalidEmail)
	}

	// Unknown sample ids are dropped silently; the storefront may be a
	// release behind the catalog.
	type resolved struct {
		sample   catalog.Sample
		quantity int
	}
	var valid []resolved
	for _, item := range params.Items {
		sample, ok := catalog.ByID(item.SampleID)
		if !ok {
			continue
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		valid = append(valid, resolved{sample: sample, quantity: qty})
	}
	if len(valid) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgNoValidItems)
	}

	order := &models.Order{
		Email:  email,
		UserID: params.UserID,
	}
	items := make([]models.OrderItem, 0, len(valid))
	lineItems := make([]stripeconnect.LineItem, 0, len(valid))
	for _, v := range valid {
		items = append(items, models.OrderItem{
			SampleID:       v.sample.ID,
			Quantity:       v.quantity,
			UnitPriceCents: v.sample.PriceCents,
		})
		lineItems = append(lineItems, stripeconnect.LineItem{
			Name:        v.sample.Filename,
			Description: v.sample.PackName,
			AmountCents: v.sample.PriceCents,
			Currency:    "usd",
			Quantity:    v.quantity,
		})
	}

	// The order is durable before the provider is contacted so a verified
	// completion always has a row to land on.
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.WithTx(tx).CreateWithItems(ctx, order, items)
		if err != nil {
			return err
		}
		order = created
		return nil
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order")
	}

	session, err := s.payments.CreateCheckoutSession(ctx, stripeconnect.CheckoutParams{
		OrderID:       order.ID.String(),
		CustomerEmail: email,
		LineItems:     lineItems,
		SuccessURL:    s.urls.Success + "?order=" + order.ID.String(),
		CancelURL:     s.urls.Cancel,
	})
	if err != nil {
		// The pending sessionless order stays behind; the reaper expires
		// it if the buyer never retries.
		s.logError(ctx, order.ID, err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}

	if err := s.repo.SetStripeSession(ctx, order.ID, session.ProviderID); err != nil {
		s.logError(ctx, order.ID, err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attach session to order")
	}

	return &StartResult{OrderID: order.ID, URL: session.URL}, nil
}

func (s *service) Status(ctx context.Context, orderID uuid.UUID) (*StatusResult, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	return &StatusResult{
		OrderID: order.ID,
		Status:  order.Status,
		HasURL:  order.StripeSessionID != nil,
	}, nil
}

func (s *service) logError(ctx context.Context, orderID uuid.UUID, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Error(s.logger.WithOrderID(ctx, orderID.String()), "checkout", err)
}
