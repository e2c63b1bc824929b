package vault

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/trndfy/samplevault-backend/internal/orders"
	"github.com/trndfy/samplevault-backend/pkg/db/models"
	"github.com/trndfy/samplevault-backend/pkg/enums"
	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
)

type stubOrders struct {
	orders.Repository

	byID    map[uuid.UUID]*models.Order
	owned   []models.Order
	findErr error
}

func (s *stubOrders) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	order, ok := s.byID[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrders) FindByOwner(ctx context.Context, userID *uuid.UUID, email string) ([]models.Order, error) {
	return s.owned, nil
}

type stubSigner struct {
	failObjects map[string]bool
	calls       []string
}

func (s *stubSigner) SignedReadURL(bucket, object string, expires time.Duration) (string, error) {
	s.calls = append(s.calls, object)
	if s.failObjects[object] {
		return "", errors.New("signing failed")
	}
	return "https://storage.googleapis.com/full-bucket/" + object + "?sig=x", nil
}

func newTestService(t *testing.T, repo *stubOrders, signer *stubSigner) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Orders:    repo,
		Signer:    signer,
		URLExpiry: 15 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func paidOrder(items ...models.OrderItem) *models.Order {
	paidAt := time.Now().UTC()
	return &models.Order{
		ID:     uuid.New(),
		Email:  "buyer@example.com",
		Status: enums.OrderStatusPaid,
		PaidAt: &paidAt,
		Items:  items,
	}
}

func TestDownloadsPaidOrder(t *testing.T) {
	order := paidOrder(
		models.OrderItem{SampleID: 4, Quantity: 1, UnitPriceCents: 299},
		models.OrderItem{SampleID: 1, Quantity: 1, UnitPriceCents: 299},
	)
	repo := &stubOrders{byID: map[uuid.UUID]*models.Order{order.ID: order}}
	svc := newTestService(t, repo, &stubSigner{})

	items, err := svc.Downloads(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Sorted by sample id, each pointing at the private object.
	assert.Equal(t, 1, items[0].SampleID)
	assert.Contains(t, items[0].URL, "full/sample1.wav")
	assert.Equal(t, 4, items[1].SampleID)
	assert.Equal(t, "trap_808_sub_bass_heavy_Fmin.wav", items[1].Filename)
	assert.False(t, items[0].ExpiresAt.IsZero())
}

func TestDownloadsDedupesBySample(t *testing.T) {
	order := paidOrder(
		models.OrderItem{SampleID: 2, Quantity: 3, UnitPriceCents: 299},
		models.OrderItem{SampleID: 2, Quantity: 1, UnitPriceCents: 299},
	)
	repo := &stubOrders{byID: map[uuid.UUID]*models.Order{order.ID: order}}
	signer := &stubSigner{}
	svc := newTestService(t, repo, signer)

	items, err := svc.Downloads(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Len(t, signer.calls, 1, "quantity must not multiply signed URLs")
}

func TestDownloadsRefusesUnpaidOrder(t *testing.T) {
	for _, status := range []enums.OrderStatus{enums.OrderStatusPending, enums.OrderStatusExpired} {
		order := paidOrder(models.OrderItem{SampleID: 1, Quantity: 1, UnitPriceCents: 299})
		order.Status = status
		order.PaidAt = nil
		repo := &stubOrders{byID: map[uuid.UUID]*models.Order{order.ID: order}}
		signer := &stubSigner{}
		svc := newTestService(t, repo, signer)

		_, err := svc.Downloads(context.Background(), order.ID)
		require.Error(t, err, status)

		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
		assert.Empty(t, signer.calls, "no URL may be signed for an unpaid order")
	}
}

func TestDownloadsUnknownOrder(t *testing.T) {
	repo := &stubOrders{byID: map[uuid.UUID]*models.Order{}}
	svc := newTestService(t, repo, &stubSigner{})

	_, err := svc.Downloads(context.Background(), uuid.New())
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestDownloadsPartialSigningFailure(t *testing.T) {
	order := paidOrder(
		models.OrderItem{SampleID: 1, Quantity: 1, UnitPriceCents: 299},
		models.OrderItem{SampleID: 2, Quantity: 1, UnitPriceCents: 299},
	)
	repo := &stubOrders{byID: map[uuid.UUID]*models.Order{order.ID: order}}
	signer := &stubSigner{failObjects: map[string]bool{"full/sample1.wav": true}}
	svc := newTestService(t, repo, signer)

	items, err := svc.Downloads(context.Background(), order.ID)
	require.NoError(t, err, "one bad object must not fail the whole order")
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].SampleID)
}

func TestDownloadsSkipsRetiredSamples(t *testing.T) {
	order := paidOrder(
		models.OrderItem{SampleID: 9001, Quantity: 1, UnitPriceCents: 299},
		models.OrderItem{SampleID: 3, Quantity: 1, UnitPriceCents: 299},
	)
	repo := &stubOrders{byID: map[uuid.UUID]*models.Order{order.ID: order}}
	svc := newTestService(t, repo, &stubSigner{})

	items, err := svc.Downloads(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].SampleID)
}

func TestListPurchases(t *testing.T) {
	paidAt := time.Now().UTC()
	repo := &stubOrders{owned: []models.Order{
		{
			ID:     uuid.New(),
			Status: enums.OrderStatusPaid,
			PaidAt: &paidAt,
			Items: []models.OrderItem{
				{SampleID: 1, Quantity: 1, UnitPriceCents: 299},
				{SampleID: 2, Quantity: 1, UnitPriceCents: 299},
			},
		},
	}}
	svc := newTestService(t, repo, &stubSigner{})

	purchases, err := svc.ListPurchases(context.Background(), nil, "buyer@example.com")
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, 2, purchases[0].ItemCount)
	assert.Equal(t, []int{1, 2}, purchases[0].Samples)
}

func TestListPurchasesRequiresOwnerScope(t *testing.T) {
	svc := newTestService(t, &stubOrders{}, &stubSigner{})
	_, err := svc.ListPurchases(context.Background(), nil, "")
	require.Error(t, err)
}
