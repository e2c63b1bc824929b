package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trndfy/samplevault-backend/pkg/db/models"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.Order, error)
	SetStripeSession(ctx context.Context, orderID uuid.UUID, sessionID string) error
	// MarkPaidIfPending flips pending->paid and reports whether this call
	// performed the transition. A false return with nil error means the
	// order was already paid or expired.
	MarkPaidIfPending(ctx context.Context, orderID uuid.UUID, paidAt time.Time) (bool, error)
	// ExpireIfPending flips pending->expired with the same
	// first-writer-wins contract as MarkPaidIfPending.
	ExpireIfPending(ctx context.Context, orderID uuid.UUID, expiredAt time.Time) (bool, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	// FindByOwner returns paid orders belonging to a user id, a
	// case-insensitive email, or both.
	FindByOwner(ctx context.Context, userID *uuid.UUID, email string) ([]models.Order, error)
	FindPendingBefore(ctx context.Context, cutoff time.Time, sessionless bool) ([]models.Order, error)
	SetNotifyError(ctx context.Context, orderID uuid.UUID, message string) error
}
