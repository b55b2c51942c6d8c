package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util/errorutil"
)

func TestDiscountServiceListTiers(t *testing.T) {
	svc := NewDiscountService(&stubUserRepo{}, nil, nil)

	tiers := svc.ListTiers()
	require.Len(t, tiers, 4)
	assert.Equal(t, 20, tiers[0].Points)
	assert.Equal(t, 10, tiers[0].Percent)
	assert.Equal(t, 80, tiers[3].Points)
	assert.Equal(t, 25, tiers[3].Percent)
}

func TestDiscountServiceCurrentPoints(t *testing.T) {
	user := testUser()
	user.DiscountPoints = 42
	svc := NewDiscountService(&stubUserRepo{user: user}, nil, nil)

	points, err := svc.CurrentPoints(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 42, points)

	_, err = svc.CurrentPoints(context.Background(), "missing")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}

func TestDiscountServiceRedeemSuccess(t *testing.T) {
	repo := &stubUserRepo{user: testUser(), redeemResult: 25}
	dispatcher := events.NewInMemoryDispatcher()
	var published []events.Event
	dispatcher.Subscribe(events.EventDiscountRedeemed, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})
	svc := NewDiscountService(repo, nil, dispatcher)

	applied, remaining, err := svc.Redeem(context.Background(), "u1", 15)
	require.NoError(t, err)
	assert.Equal(t, 15, applied)
	assert.Equal(t, 25, remaining)
	assert.Equal(t, 1, repo.redeemCalls)

	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.DiscountRedeemedPayload)
	require.True(t, ok)
	assert.Equal(t, 40, payload.PointsSpent)
	assert.Equal(t, 25, payload.RemainingPoints)
}

func TestDiscountServiceRedeemValidation(t *testing.T) {
	repo := &stubUserRepo{user: testUser()}
	svc := NewDiscountService(repo, nil, nil)

	_, _, err := svc.Redeem(context.Background(), "u1", 0)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Discount value is required", domainErr.Message)

	_, _, err = svc.Redeem(context.Background(), "u1", 13)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Invalid discount option", domainErr.Message)

	assert.Zero(t, repo.redeemCalls, "invalid requests must not touch the balance")
}

func TestDiscountServiceRedeemInsufficientPoints(t *testing.T) {
	repo := &stubUserRepo{user: testUser(), redeemErr: repository.ErrInsufficientPoints}
	svc := NewDiscountService(repo, nil, nil)

	_, _, err := svc.Redeem(context.Background(), "u1", 25)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Not enough discount points", domainErr.Message)
	assert.Equal(t, 400, domainErr.HTTPStatus)
}

func TestDiscountServiceRedeemThrottled(t *testing.T) {
	repo := &stubUserRepo{user: testUser()}
	svc := NewDiscountService(repo, denyLimiter{}, nil)

	_, _, err := svc.Redeem(context.Background(), "u1", 10)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 429, domainErr.HTTPStatus)
	assert.Zero(t, repo.redeemCalls)
}
