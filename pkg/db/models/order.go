package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/trndfy/samplevault-backend/pkg/enums"
)

// Order is the durable record of a checkout attempt and its resolution.
// Rows are never deleted; a paid order is the purchase-of-record.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email           string            `gorm:"column:email;not null;index"`
	UserID          *uuid.UUID        `gorm:"column:user_id;type:uuid;index"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	StripeSessionID *string           `gorm:"column:stripe_session_id;index"`
	// NotifyError records a failed fulfillment email; it never blocks the
	// paid transition.
	NotifyError *string     `gorm:"column:notify_error"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaidAt      *time.Time  `gorm:"column:paid_at"`
	ExpiredAt   *time.Time  `gorm:"column:expired_at"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
