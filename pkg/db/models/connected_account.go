package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/trndfy/samplevault-backend/pkg/enums"
)

// ConnectedAccount records a merchant's linked payment account. Only the
// provider-assigned account id is stored, never provider credentials.
type ConnectedAccount struct {
	ID          uuid.UUID                    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID   string                       `gorm:"column:account_id;not null;uniqueIndex"`
	Status      enums.ConnectedAccountStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Email       *string                      `gorm:"column:email"`
	State       *string                      `gorm:"column:state"`
	ConnectedAt time.Time                    `gorm:"column:connected_at;not null"`
	CreatedAt   time.Time                    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time                    `gorm:"column:updated_at;autoUpdateTime"`
}
