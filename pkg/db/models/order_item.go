package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots one purchased sample. UnitPriceCents is copied from the
// catalog at checkout time and is never re-derived later.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	SampleID       int       `gorm:"column:sample_id;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
