package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/google/uuid"

	"github.com/trndfy/samplevault-backend/pkg/db/models"
	"github.com/trndfy/samplevault-backend/pkg/logger"
)

const (
	defaultSessionlessTTL = time.Hour
	defaultPendingTTL     = 48 * time.Hour
)

type pendingOrderStore interface {
	FindPendingBefore(ctx context.Context, cutoff time.Time, sessionless bool) ([]models.Order, error)
	ExpireIfPending(ctx context.Context, orderID uuid.UUID, expiredAt time.Time) (bool, error)
}

// OrderReaperParams configure the abandoned-order job.
type OrderReaperParams struct {
	Logger *logger.Logger
	Orders pendingOrderStore
	// SessionlessTTL expires pending orders that never received a
	// provider session (checkout crashed mid-flow).
	SessionlessTTL time.Duration
	// PendingTTL expires any pending order, sessioned or not; hosted
	// sessions die upstream well before this.
	PendingTTL time.Duration
}

// NewOrderReaperJob builds the job that expires abandoned pending orders.
// Expiry uses conditional updates, so a payment completion racing the reaper
// always wins.
func NewOrderReaperJob(params OrderReaperParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders store required")
	}
	sessionlessTTL := params.SessionlessTTL
	if sessionlessTTL <= 0 {
		sessionlessTTL = defaultSessionlessTTL
	}
	pendingTTL := params.PendingTTL
	if pendingTTL <= 0 {
		pendingTTL = defaultPendingTTL
	}
	return &orderReaperJob{
		logg:           params.Logger,
		orders:         params.Orders,
		sessionlessTTL: sessionlessTTL,
		pendingTTL:     pendingTTL,
		now:            time.Now,
	}, nil
}

type orderReaperJob struct {
	logg           *logger.Logger
	orders         pendingOrderStore
	sessionlessTTL time.Duration
	pendingTTL     time.Duration
	now            func() time.Time
}

func (j *orderReaperJob) Name() string { return "order-reaper" }

func (j *orderReaperJob) Run(ctx context.Context) error {
	var errs []error
	if err := j.expire(ctx, j.sessionlessTTL, true); err != nil {
		errs = append(errs, err)
	}
	if err := j.expire(ctx, j.pendingTTL, false); err != nil {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}

func (j *orderReaperJob) expire(ctx context.Context, ttl time.Duration, sessionless bool) error {
	now := j.now().UTC()
	cutoff := now.Add(-ttl)

	stale, err := j.orders.FindPendingBefore(ctx, cutoff, sessionless)
	if err != nil {
		return fmt.Errorf("query stale pending orders: %w", err)
	}

	expired := 0
	var errs []error
	for _, order := range stale {
		done, err := j.orders.ExpireIfPending(ctx, order.ID, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("expire order %s: %w", order.ID, err))
			continue
		}
		if done {
			expired++
		}
	}

	if expired > 0 {
		j.logg.Info(j.logg.WithFields(ctx, map[string]any{
			"expired":     expired,
			"sessionless": sessionless,
		}), "expired abandoned orders")
	}
	return multierr.Combine(errs...)
}
