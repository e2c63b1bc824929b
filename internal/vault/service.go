package vault

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trndfy/samplevault-backend/internal/catalog"
	"github.com/trndfy/samplevault-backend/internal/orders"
	"github.com/trndfy/samplevault-backend/pkg/enums"
	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
	"github.com/trndfy/samplevault-backend/pkg/logger"
	"github.com/trndfy/samplevault-backend/pkg/storage/gcs"
)

// DownloadItem is one time-limited grant for a purchased sample.
type DownloadItem struct {
	SampleID  int       `json:"sampleId"`
	Filename  string    `json:"filename"`
	PackName  string    `json:"packName"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Purchase is one paid order in the buyer's vault listing.
type Purchase struct {
	OrderID   uuid.UUID  `json:"orderId"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
	ItemCount int        `json:"itemCount"`
	Samples   []int      `json:"sampleIds"`
}

// Service issues download grants for paid orders and lists a buyer's
// purchase history.
type Service interface {
	Downloads(ctx context.Context, orderID uuid.UUID) ([]DownloadItem, error)
	ListPurchases(ctx context.Context, userID *uuid.UUID, email string) ([]Purchase, error)
}

type ServiceParams struct {
	Orders    orders.Repository
	Signer    gcs.URLSigner
	URLExpiry time.Duration
	Logger    *logger.Logger
}

type service struct {
	orders    orders.Repository
	signer    gcs.URLSigner
	urlExpiry time.Duration
	logger    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Signer == nil {
		return nil, fmt.Errorf("url signer required")
	}
	if params.URLExpiry <= 0 {
		return nil, fmt.Errorf("url expiry must be positive")
	}
	return &service{
		orders:    params.Orders,
		signer:    params.Signer,
		urlExpiry: params.URLExpiry,
		logger:    params.Logger,
	}, nil
}

// Downloads issues one signed URL per distinct purchased sample. Signing is
// best-effort: a sample whose URL cannot be produced is skipped so the rest
// of the order stays reachable.
func (s *service) Downloads(ctx context.Context, orderID uuid.UUID) ([]DownloadItem, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.Status != enums.OrderStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not paid")
	}

	// Quantity never multiplies access: one grant per distinct sample.
	seen := map[int]bool{}
	expiresAt := time.Now().Add(s.urlExpiry).UTC()

	var items []DownloadItem
	for _, item := range order.Items {
		if seen[item.SampleID] {
			continue
		}
		seen[item.SampleID] = true

		sample, ok := catalog.ByID(item.SampleID)
		if !ok {
			s.warn(ctx, orderID, fmt.Errorf("purchased sample %d no longer in catalog", item.SampleID))
			continue
		}

		url, err := s.signer.SignedReadURL("", sample.FullObjectPath, s.urlExpiry)
		if err != nil {
			s.warn(ctx, orderID, fmt.Errorf("sign sample %d: %w", item.SampleID, err))
			continue
		}

		items = append(items, DownloadItem{
			SampleID:  sample.ID,
			Filename:  sample.Filename,
			PackName:  sample.PackName,
			URL:       url,
			ExpiresAt: expiresAt,
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].SampleID < items[j].SampleID })
	return items, nil
}

func (s *service) ListPurchases(ctx context.Context, userID *uuid.UUID, email string) ([]Purchase, error) {
	if userID == nil && email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id or email required")
	}

	paid, err := s.orders.FindByOwner(ctx, userID, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list purchases")
	}

	purchases := make([]Purchase, 0, len(paid))
	for _, order := range paid {
		p := Purchase{
			OrderID:   order.ID,
			PaidAt:    order.PaidAt,
			ItemCount: len(order.Items),
		}
		for _, item := range order.Items {
			p.Samples = append(p.Samples, item.SampleID)
		}
		purchases = append(purchases, p)
	}
	return purchases, nil
}

func (s *service) warn(ctx context.Context, orderID uuid.UUID, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(s.logger.WithOrderID(ctx, orderID.String()), err.Error())
}
