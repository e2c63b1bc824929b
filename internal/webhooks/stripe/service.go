package stripewebhook

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trndfy/samplevault-backend/internal/orders"
	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
	"github.com/trndfy/samplevault-backend/pkg/logger"
	"github.com/trndfy/samplevault-backend/pkg/mailer"
	"github.com/trndfy/samplevault-backend/pkg/stripeconnect"
)

type ServiceParams struct {
	Orders   orders.Repository
	Mailer   mailer.Sender
	VaultURL string
	Logger   *logger.Logger
}

// Service turns verified checkout-completion events into paid orders.
type Service struct {
	orders   orders.Repository
	mailer   mailer.Sender
	vaultURL string
	logger   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if params.VaultURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "vault url required")
	}
	return &Service{
		orders:   params.Orders,
		mailer:   params.Mailer,
		vaultURL: params.VaultURL,
		logger:   params.Logger,
	}, nil
}

// HandleEvent processes one verified event. Ignored types, unknown orders,
// and repeat completions all return nil so the endpoint acknowledges them;
// only storage failures propagate, which makes the provider redeliver.
func (s *Service) HandleEvent(ctx context.Context, event *stripeconnect.Event) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "event required")
	}
	ctx = s.scope(ctx, event.ID)

	if event.Type != stripeconnect.EventTypeCheckoutCompleted {
		return nil
	}

	rawOrderID := event.OrderID()
	if rawOrderID == "" {
		s.warn(ctx, "completed session carries no order id")
		return nil
	}
	orderID, err := uuid.Parse(rawOrderID)
	if err != nil {
		s.warn(ctx, fmt.Sprintf("unparseable order id %q", rawOrderID))
		return nil
	}

	transitioned, err := s.orders.MarkPaidIfPending(ctx, orderID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark order paid")
	}
	if !transitioned {
		// Duplicate delivery, an expired order, or an id we never issued.
		return nil
	}

	s.notify(ctx, orderID)
	return nil
}

// notify sends the vault email on the first (and only) paid transition. Mail
// is best-effort: a failure is recorded on the order and never unwinds the
// payment.
func (s *Service) notify(ctx context.Context, orderID uuid.UUID) {
	if s.mailer == nil {
		return
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		s.recordNotifyError(ctx, orderID, fmt.Errorf("load order for email: %w", err))
		return
	}

	err = s.mailer.SendPurchaseEmail(ctx, mailer.PurchaseEmailParams{
		To:        order.Email,
		VaultURL:  s.vaultURL + "?order=" + orderID.String(),
		ItemCount: len(order.Items),
	})
	if err != nil {
		s.recordNotifyError(ctx, orderID, err)
	}
}

func (s *Service) recordNotifyError(ctx context.Context, orderID uuid.UUID, cause error) {
	if s.logger != nil {
		s.logger.Error(s.logger.WithOrderID(ctx, orderID.String()), "purchase email failed", cause)
	}
	if err := s.orders.SetNotifyError(ctx, orderID, cause.Error()); err != nil && s.logger != nil {
		s.logger.Error(s.logger.WithOrderID(ctx, orderID.String()), "record notify error", err)
	}
}

func (s *Service) scope(ctx context.Context, eventID string) context.Context {
	if s.logger == nil || eventID == "" {
		return ctx
	}
	return s.logger.WithEventID(ctx, eventID)
}

func (s *Service) warn(ctx context.Context, msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(ctx, msg)
}
