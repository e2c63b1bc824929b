package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trndfy/samplevault-backend/pkg/db/models"
	"github.com/trndfy/samplevault-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = enums.OrderStatusPending
	}
	order.Email = strings.ToLower(strings.TrimSpace(order.Email))

	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].OrderID = order.ID
	}

	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
			return nil, err
		}
	}
	order.Items = items
	return order, nil
}

func (r *repository) SetStripeSession(ctx context.Context, orderID uuid.UUID, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("stripe_session_id", sessionID).Error
}

func (r *repository) MarkPaidIfPending(ctx context.Context, orderID uuid.UUID, paidAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, enums.OrderStatusPending).
		Updates(map[string]any{
			"status":  enums.OrderStatusPaid,
			"paid_at": paidAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ExpireIfPending(ctx context.Context, orderID uuid.UUID, expiredAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, enums.OrderStatusPending).
		Updates(map[string]any{
			"status":     enums.OrderStatusExpired,
			"expired_at": expiredAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByOwner(ctx context.Context, userID *uuid.UUID, email string) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", enums.OrderStatusPaid)

	email = strings.ToLower(strings.TrimSpace(email))
	switch {
	case userID != nil && email != "":
		query = query.Where("user_id = ? OR lower(email) = ?", *userID, email)
	case userID != nil:
		query = query.Where("user_id = ?", *userID)
	case email != "":
		query = query.Where("lower(email) = ?", email)
	default:
		return nil, nil
	}

	var results []models.Order
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *repository) FindPendingBefore(ctx context.Context, cutoff time.Time, sessionless bool) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.OrderStatusPending, cutoff)
	if sessionless {
		query = query.Where("stripe_session_id IS NULL")
	}

	var results []models.Order
	if err := query.Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *repository) SetNotifyError(ctx context.Context, orderID uuid.UUID, message string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("notify_error", message).Error
}
