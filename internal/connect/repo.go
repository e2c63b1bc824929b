package connect

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trndfy/samplevault-backend/pkg/db/models"
	"github.com/trndfy/samplevault-backend/pkg/enums"
)

// Repository persists linked merchant accounts.
type Repository interface {
	Upsert(ctx context.Context, account *models.ConnectedAccount) (*models.ConnectedAccount, error)
	FindByAccountID(ctx context.Context, accountID string) (*models.ConnectedAccount, error)
	UpdateStatus(ctx context.Context, accountID string, status enums.ConnectedAccountStatus) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Upsert inserts a linked account or refreshes an existing row when the
// merchant runs the OAuth flow again.
func (r *repository) Upsert(ctx context.Context, account *models.ConnectedAccount) (*models.ConnectedAccount, error) {
	if account == nil || strings.TrimSpace(account.AccountID) == "" {
		return nil, errors.New("account id required")
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.Status == "" {
		account.Status = enums.ConnectedAccountStatusActive
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "email", "state", "connected_at", "updated_at",
		}),
	}).Create(account).Error
	if err != nil {
		return nil, err
	}
	return r.FindByAccountID(ctx, account.AccountID)
}

func (r *repository) FindByAccountID(ctx context.Context, accountID string) (*models.ConnectedAccount, error) {
	var account models.ConnectedAccount
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) UpdateStatus(ctx context.Context, accountID string, status enums.ConnectedAccountStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.ConnectedAccount{}).
		Where("account_id = ?", accountID).
		Update("status", status).Error
}
