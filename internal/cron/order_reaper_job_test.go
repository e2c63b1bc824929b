package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trndfy/samplevault-backend/pkg/db/models"
	"github.com/trndfy/samplevault-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
}

type stubPendingStore struct {
	sessionless []models.Order
	all         []models.Order
	findErr     error
	expireErr   map[uuid.UUID]error
	expired     []uuid.UUID
	paid        map[uuid.UUID]bool
}

func (s *stubPendingStore) FindPendingBefore(ctx context.Context, cutoff time.Time, sessionless bool) ([]models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if sessionless {
		return s.sessionless, nil
	}
	return s.all, nil
}

func (s *stubPendingStore) ExpireIfPending(ctx context.Context, orderID uuid.UUID, expiredAt time.Time) (bool, error) {
	if err := s.expireErr[orderID]; err != nil {
		return false, err
	}
	if s.paid[orderID] {
		return false, nil
	}
	s.expired = append(s.expired, orderID)
	return true, nil
}

func TestOrderReaperExpiresBothClasses(t *testing.T) {
	sessionless := models.Order{ID: uuid.New()}
	stale := models.Order{ID: uuid.New()}
	store := &stubPendingStore{
		sessionless: []models.Order{sessionless},
		all:         []models.Order{stale},
	}

	job, err := NewOrderReaperJob(OrderReaperParams{Logger: testLogger(), Orders: store})
	require.NoError(t, err)
	assert.Equal(t, "order-reaper", job.Name())

	require.NoError(t, job.Run(context.Background()))
	assert.ElementsMatch(t, []uuid.UUID{sessionless.ID, stale.ID}, store.expired)
}

func TestOrderReaperLosesRaceToPayment(t *testing.T) {
	winner := models.Order{ID: uuid.New()}
	store := &stubPendingStore{
		all:  []models.Order{winner},
		paid: map[uuid.UUID]bool{winner.ID: true},
	}

	job, err := NewOrderReaperJob(OrderReaperParams{Logger: testLogger(), Orders: store})
	require.NoError(t, err)

	// A completion landing between the query and the update wins; the
	// reaper treats the skip as success.
	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, store.expired)
}

func TestOrderReaperCombinesErrors(t *testing.T) {
	bad := models.Order{ID: uuid.New()}
	good := models.Order{ID: uuid.New()}
	store := &stubPendingStore{
		all:       []models.Order{bad, good},
		expireErr: map[uuid.UUID]error{bad.ID: errors.New("db timeout")},
	}

	job, err := NewOrderReaperJob(OrderReaperParams{Logger: testLogger(), Orders: store})
	require.NoError(t, err)

	runErr := job.Run(context.Background())
	require.Error(t, runErr)
	assert.Contains(t, runErr.Error(), "db timeout")
	// The remaining order still expired despite the sibling failure.
	assert.Contains(t, store.expired, good.ID)
}

func TestOrderReaperQueryFailure(t *testing.T) {
	store := &stubPendingStore{findErr: errors.New("db down")}
	job, err := NewOrderReaperJob(OrderReaperParams{Logger: testLogger(), Orders: store})
	require.NoError(t, err)

	require.Error(t, job.Run(context.Background()))
}

func TestNewOrderReaperJobValidation(t *testing.T) {
	_, err := NewOrderReaperJob(OrderReaperParams{Orders: &stubPendingStore{}})
	require.Error(t, err)

	_, err = NewOrderReaperJob(OrderReaperParams{Logger: testLogger()})
	require.Error(t, err)
}
