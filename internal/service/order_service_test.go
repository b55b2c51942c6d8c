package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/quota"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util/errorutil"
)

type stubOrderRepo struct {
	violation *quota.Violation
	err       error

	gotOrder *domain.Order
	gotNow   time.Time
}

func (s *stubOrderRepo) CreateWithQuota(_ context.Context, order *domain.Order, now time.Time) (*quota.Violation, error) {
	s.gotOrder = order
	s.gotNow = now
	if s.err != nil {
		return nil, s.err
	}
	if s.violation != nil {
		return s.violation, nil
	}
	order.ID = "order-1"
	order.CreatedAt = now
	return nil, nil
}

func (s *stubOrderRepo) ListAll(context.Context) ([]domain.Order, error) { return nil, nil }
func (s *stubOrderRepo) ListByUsername(context.Context, string) ([]domain.Order, error) {
	return nil, nil
}
func (s *stubOrderRepo) GetByID(context.Context, string) (*domain.Order, error) { return nil, nil }
func (s *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{ID: id, Status: status}, nil
}
func (s *stubOrderRepo) UpdateTracking(_ context.Context, id, tn, sc string) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{ID: id, TrackingNumber: tn, ShippingCarrier: sc}, nil
}

func validDraft() OrderDraft {
	return OrderDraft{
		Username:         "alice",
		TotalAmountCents: 120_00,
		Products: []domain.OrderProduct{
			{ID: "p1", Name: "Desk Lamp", Price: 120},
		},
	}
}

func TestOrderServiceCreateSuccess(t *testing.T) {
	repo := &stubOrderRepo{}
	dispatcher := events.NewInMemoryDispatcher()

	var published []events.Event
	dispatcher.Subscribe(events.EventOrderCreated, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	svc := NewOrderService(repo, dispatcher)
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	order, violation, err := svc.Create(context.Background(), validDraft())
	require.NoError(t, err)
	require.Nil(t, violation)
	require.NotNil(t, order)

	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, fixed, repo.gotNow)

	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.OrderCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, 3, payload.PointsEarned)
	assert.Equal(t, "alice", published[0].Username)
}

func TestOrderServiceCreateValidation(t *testing.T) {
	svc := NewOrderService(&stubOrderRepo{}, nil)

	cases := []struct {
		name  string
		draft OrderDraft
	}{
		{"missing username", OrderDraft{TotalAmountCents: 100, Products: validDraft().Products}},
		{"no products", OrderDraft{Username: "alice", TotalAmountCents: 100}},
		{"non-positive total", OrderDraft{Username: "alice", Products: validDraft().Products}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Create(context.Background(), tc.draft)
			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		})
	}
}

func TestOrderServiceCreateViolationPassthrough(t *testing.T) {
	violation := &quota.Violation{
		Kind:   quota.ViolationDailyLimit,
		Reason: "Daily order limit exceeded",
		Limit:  1,
		Used:   1,
	}
	repo := &stubOrderRepo{violation: violation}
	dispatcher := events.NewInMemoryDispatcher()

	var published int
	dispatcher.Subscribe(events.EventOrderCreated, func(context.Context, events.Event) error {
		published++
		return nil
	})

	svc := NewOrderService(repo, dispatcher)
	order, got, err := svc.Create(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Nil(t, order)
	assert.Same(t, violation, got)
	assert.Zero(t, published, "rejected orders must not emit events")
}

func TestOrderServiceCreateUnknownUser(t *testing.T) {
	repo := &stubOrderRepo{err: repository.ErrUserNotFound}
	svc := NewOrderService(repo, nil)

	_, _, err := svc.Create(context.Background(), validDraft())
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}

func TestOrderServiceUpdateStatus(t *testing.T) {
	svc := NewOrderService(&stubOrderRepo{}, nil)

	order, err := svc.UpdateStatus(context.Background(), "order-1", domain.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, order.Status)

	_, err = svc.UpdateStatus(context.Background(), "order-1", domain.OrderStatus("LOST"))
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestOrderServiceUpdateStatusNotFound(t *testing.T) {
	svc := NewOrderService(&stubOrderRepo{err: repository.ErrOrderNotFound}, nil)

	_, err := svc.UpdateStatus(context.Background(), "missing", domain.OrderStatusShipped)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}

func TestOrderServiceUpdateTrackingValidation(t *testing.T) {
	svc := NewOrderService(&stubOrderRepo{}, nil)

	_, err := svc.UpdateTracking(context.Background(), "order-1", "", "UPS")
	require.Error(t, err)

	order, err := svc.UpdateTracking(context.Background(), "order-1", "1Z999", "UPS")
	require.NoError(t, err)
	assert.Equal(t, "1Z999", order.TrackingNumber)
}

func TestOrderServiceCreateRepositoryError(t *testing.T) {
	repo := &stubOrderRepo{err: errors.New("connection reset")}
	svc := NewOrderService(repo, nil)

	_, _, err := svc.Create(context.Background(), validDraft())
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	assert.False(t, errors.As(err, &domainErr), "infrastructure errors pass through unwrapped")
}
