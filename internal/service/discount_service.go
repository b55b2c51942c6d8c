package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/ratelimit"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util/errorutil"
)

// DiscountService maps points balances to redemption tiers and debits points
// when a tier is applied. Once validated, the debit is immediate and there is
// no reservation: abandoning checkout after redeeming does not refund points.
type DiscountService struct {
	users      repository.UserRepository
	limiter    ratelimit.Limiter
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewDiscountService constructs the service.
func NewDiscountService(users repository.UserRepository, limiter ratelimit.Limiter, dispatcher events.Dispatcher) *DiscountService {
	if limiter == nil {
		limiter = ratelimit.NewNoop()
	}
	return &DiscountService{
		users:      users,
		limiter:    limiter,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// ListTiers returns the static redemption table, ascending by points.
func (s *DiscountService) ListTiers() []domain.DiscountTier {
	return domain.DiscountTiers()
}

// CurrentPoints returns the user's points balance.
func (s *DiscountService) CurrentPoints(ctx context.Context, userID string) (int, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, apperrors.NewNotFound("user", nil)
		}
		return 0, err
	}
	return user.DiscountPoints, nil
}

// Redeem debits the tier cost matching the requested percentage and returns
// the applied percentage with the remaining balance. A failed redemption
// never mutates the balance.
func (s *DiscountService) Redeem(ctx context.Context, userID string, percent int) (int, int, error) {
	allowed, err := s.limiter.Allow(ctx, "discount:apply:"+userID)
	if err == nil && !allowed {
		return 0, 0, apperrors.NewRateLimited("too many discount attempts, retry later")
	}

	if percent <= 0 {
		return 0, 0, apperrors.NewValidationError("Discount value is required", nil)
	}
	tier, ok := domain.FindTierByPercent(percent)
	if !ok {
		return 0, 0, apperrors.NewValidationError("Invalid discount option", nil)
	}

	updatedPoints, err := s.users.RedeemPoints(ctx, userID, tier.Points)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientPoints):
			return 0, 0, apperrors.NewValidationError("Not enough discount points", nil)
		case errors.Is(err, repository.ErrUserNotFound):
			return 0, 0, apperrors.NewNotFound("user", nil)
		}
		return 0, 0, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventDiscountRedeemed,
		UserID: userID,
		Payload: events.DiscountRedeemedPayload{
			Percent:         tier.Percent,
			PointsSpent:     tier.Points,
			RemainingPoints: updatedPoints,
		},
	})
	return tier.Percent, updatedPoints, nil
}

func (s *DiscountService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
