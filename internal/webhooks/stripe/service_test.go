package stripewebhook

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
	"github.com/trndfy/samplevault-backend/pkg/mailer"
	"github.com/trndfy/samplevault-backend/pkg/stripeconnect"
)

type stubOrders struct {
	orders.Repository

	statuses     map[uuid.UUID]enums.OrderStatus
	markErr      error
	notifyErrors map[uuid.UUID]string
	emails       map[uuid.UUID]string
}

func newStubOrders() *stubOrders {
	return &stubOrders{
		statuses:     map[uuid.UUID]enums.OrderStatus{},
		notifyErrors: map[uuid.UUID]string{},
		emails:       map[uuid.UUID]string{},
	}
}

func (s *stubOrders) MarkPaidIfPending(ctx context.Context, orderID uuid.UUID, paidAt time.Time) (bool, error) {
	if s.markErr != nil {
		return false, s.markErr
	}
	if s.statuses[orderID] != enums.OrderStatusPending {
		return false, nil
	}
	s.statuses[orderID] = enums.OrderStatusPaid
	return true, nil
}

func (s *stubOrders) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	status, ok := s.statuses[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Order{
		ID:     orderID,
		Email:  s.emails[orderID],
		Status: status,
		Items:  []models.OrderItem{{SampleID: 1, Quantity: 2, UnitPriceCents: 299}},
	}, nil
}

func (s *stubOrders) SetNotifyError(ctx context.Context, orderID uuid.UUID, message string) error {
	s.notifyErrors[orderID] = message
	return nil
}

type stubMailer struct {
	sent []mailer.PurchaseEmailParams
	err  error
}

func (s *stubMailer) SendPurchaseEmail(ctx context.Context, params mailer.PurchaseEmailParams) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, params)
	return nil
}

func completedEvent(orderID string) *stripeconnect.Event {
	return &stripeconnect.Event{
		ID:   "evt_1",
		Type: stripeconnect.EventTypeCheckoutCompleted,
		Data: stripeconnect.EventData{
			Object: stripeconnect.EventObject{
				ID:       "cs_test_1",
				Metadata: map[string]string{"order_id": orderID},
			},
		},
	}
}

func newTestService(t *testing.T, repo *stubOrders, mail mailer.Sender) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Orders:   repo,
		Mailer:   mail,
		VaultURL: "https://shop.test/vault",
	})
	require.NoError(t, err)
	return svc
}

func TestHandleEventFulfillsOrder(t *testing.T) {
	repo := newStubOrders()
	mail := &stubMailer{}
	svc := newTestService(t, repo, mail)

	orderID := uuid.New()
	repo.statuses[orderID] = enums.OrderStatusPending
	repo.emails[orderID] = "buyer@example.com"

	require.NoError(t, svc.HandleEvent(context.Background(), completedEvent(orderID.String())))

	assert.Equal(t, enums.OrderStatusPaid, repo.statuses[orderID])
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "buyer@example.com", mail.sent[0].To)
	assert.Equal(t, "https://shop.test/vault?order="+orderID.String(), mail.sent[0].VaultURL)
	assert.Equal(t, 1, mail.sent[0].ItemCount)
}

func TestHandleEventDuplicateDeliverySendsNoSecondEmail(t *testing.T) {
	repo := newStubOrders()
	mail := &stubMailer{}
	svc := newTestService(t, repo, mail)

	orderID := uuid.New()
	repo.statuses[orderID] = enums.OrderStatusPending
	event := completedEvent(orderID.String())

	require.NoError(t, svc.HandleEvent(context.Background(), event))
	require.NoError(t, svc.HandleEvent(context.Background(), event))

	assert.Equal(t, enums.OrderStatusPaid, repo.statuses[orderID])
	assert.Len(t, mail.sent, 1, "repeat completion must not re-notify")
}

func TestHandleEventIgnoresOtherTypes(t *testing.T) {
	repo := newStubOrders()
	svc := newTestService(t, repo, &stubMailer{})

	event := completedEvent(uuid.New().String())
	event.Type = "payment_intent.created"

	require.NoError(t, svc.HandleEvent(context.Background(), event))
	assert.Empty(t, repo.statuses)
}

func TestHandleEventUnknownOrderAcknowledged(t *testing.T) {
	repo := newStubOrders()
	mail := &stubMailer{}
	svc := newTestService(t, repo, mail)

	require.NoError(t, svc.HandleEvent(context.Background(), completedEvent(uuid.New().String())))
	assert.Empty(t, mail.sent)
}

func TestHandleEventBadOrderIDAcknowledged(t *testing.T) {
	svc := newTestService(t, newStubOrders(), &stubMailer{})

	require.NoError(t, svc.HandleEvent(context.Background(), completedEvent("not-a-uuid")))

	noID := completedEvent("")
	noID.Data.Object.Metadata = nil
	require.NoError(t, svc.HandleEvent(context.Background(), noID))
}

func TestHandleEventStorageFailurePropagates(t *testing.T) {
	repo := newStubOrders()
	repo.markErr = errors.New("db down")
	svc := newTestService(t, repo, &stubMailer{})

	err := svc.HandleEvent(context.Background(), completedEvent(uuid.New().String()))
	require.Error(t, err)
}

func TestHandleEventMailFailureRecordedNotFatal(t *testing.T) {
	repo := newStubOrders()
	mail := &stubMailer{err: errors.New("mailer timeout")}
	svc := newTestService(t, repo, mail)

	orderID := uuid.New()
	repo.statuses[orderID] = enums.OrderStatusPending
	repo.emails[orderID] = "buyer@example.com"

	require.NoError(t, svc.HandleEvent(context.Background(), completedEvent(orderID.String())))

	assert.Equal(t, enums.OrderStatusPaid, repo.statuses[orderID])
	assert.Contains(t, repo.notifyErrors[orderID], "mailer timeout")
}

type stubIdemStore struct {
	seen   map[string]bool
	setErr error
}

func (s *stubIdemStore) Get(ctx context.Context, key string) (string, error) { return "", nil }

func (s *stubIdemStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.setErr != nil {
		return false, s.setErr
	}
	if s.seen[key] {
		return false, nil
	}
	if s.seen == nil {
		s.seen = map[string]bool{}
	}
	s.seen[key] = true
	return true, nil
}

func (s *stubIdemStore) IdempotencyKey(scope, id string) string { return scope + ":" + id }

func (s *stubIdemStore) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.seen, k)
	}
	return nil
}

func TestIdempotencyGuard(t *testing.T) {
	guard, err := NewIdempotencyGuard(&stubIdemStore{}, time.Hour, "stripe-webhook")
	require.NoError(t, err)

	seen, err := guard.CheckAndMark(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = guard.CheckAndMark(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.True(t, seen)

	// Rolling back the mark re-arms the event for redelivery.
	require.NoError(t, guard.Delete(context.Background(), "evt_1"))
	seen, err = guard.CheckAndMark(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestIdempotencyGuardValidation(t *testing.T) {
	_, err := NewIdempotencyGuard(nil, time.Hour, "scope")
	require.Error(t, err)

	_, err = NewIdempotencyGuard(&stubIdemStore{}, time.Hour, "")
	require.Error(t, err)

	guard, err := NewIdempotencyGuard(&stubIdemStore{}, time.Hour, "scope")
	require.NoError(t, err)
	_, err = guard.CheckAndMark(context.Background(), "")
	require.Error(t, err)
}
