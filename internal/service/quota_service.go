package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/quota"
	"github.com/spec-kit/storefront-service/internal/ratelimit"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util/errorutil"
)

// QuotaView is the read model returned by the admin surface.
type QuotaView struct {
	UserID   string
	Email    string
	Username string
	Quotas   domain.Quotas
	Usage    domain.Usage
}

// QuotaFieldsInput carries an optional partial update of quota ceilings.
// Monetary values are in currency units.
type QuotaFieldsInput struct {
	MaxOrdersPerDay     *int     `json:"maxOrdersPerDay"`
	MaxProductsPerOrder *int     `json:"maxProductsPerOrder"`
	MaxTotalOrderValue  *float64 `json:"maxTotalOrderValue"`
}

// UsageFieldsInput carries an optional partial update of usage counters.
type UsageFieldsInput struct {
	OrdersToday   *int    `json:"ordersToday"`
	LastOrderDate *string `json:"lastOrderDate"`
}

// QuotaService implements the quota admin surface and the advisory
// check-order path. Both paths share the evaluator in internal/quota, so the
// daily-limit comparison is the same everywhere.
type QuotaService struct {
	users      repository.UserRepository
	limiter    ratelimit.Limiter
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewQuotaService constructs the service.
func NewQuotaService(users repository.UserRepository, limiter ratelimit.Limiter, dispatcher events.Dispatcher) *QuotaService {
	if limiter == nil {
		limiter = ratelimit.NewNoop()
	}
	return &QuotaService{
		users:      users,
		limiter:    limiter,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// GetQuotas returns a user's quotas and usage together with identity fields.
func (s *QuotaService) GetQuotas(ctx context.Context, userID string) (*QuotaView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return &QuotaView{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Quotas:   user.Quotas,
		Usage:    user.Usage,
	}, nil
}

// SetQuotas applies a partial quota/usage override. Negative numeric inputs
// are clamped to zero rather than rejected; absent fields stay unmodified.
// Returns the applied field map and a summary message.
func (s *QuotaService) SetQuotas(ctx context.Context, userID string, quotas *QuotaFieldsInput, usage *UsageFieldsInput) (map[string]any, string, error) {
	allowed, err := s.limiter.Allow(ctx, "quotas:set:"+userID)
	if err == nil && !allowed {
		return nil, "", apperrors.NewRateLimited("too many quota updates, retry later")
	}

	var patch repository.QuotaPatch
	updatedData := map[string]any{}

	if quotas != nil {
		if quotas.MaxOrdersPerDay != nil {
			v := clampInt(*quotas.MaxOrdersPerDay)
			patch.MaxOrdersPerDay = &v
			updatedData["quotas.maxOrdersPerDay"] = v
		}
		if quotas.MaxProductsPerOrder != nil {
			v := clampInt(*quotas.MaxProductsPerOrder)
			patch.MaxProductsPerOrder = &v
			updatedData["quotas.maxProductsPerOrder"] = v
		}
		if quotas.MaxTotalOrderValue != nil {
			cents := clampCents(domain.UnitsToCents(*quotas.MaxTotalOrderValue))
			patch.MaxTotalOrderValueCents = &cents
			updatedData["quotas.maxTotalOrderValue"] = float64(cents) / 100
		}
	}

	if usage != nil {
		if usage.OrdersToday != nil {
			v := clampInt(*usage.OrdersToday)
			patch.OrdersToday = &v
			updatedData["usage.ordersToday"] = v
		}
		if usage.LastOrderDate != nil {
			parsed, err := time.ParseInLocation("2006-01-02", *usage.LastOrderDate, time.UTC)
			if err != nil {
				return nil, "", apperrors.NewValidationError("lastOrderDate must be YYYY-MM-DD", nil)
			}
			patch.LastOrderDate = &parsed
			updatedData["usage.lastOrderDate"] = *usage.LastOrderDate
		}
	}

	if err := s.users.UpdateQuotaState(ctx, userID, patch); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", apperrors.NewNotFound("user", nil)
		}
		return nil, "", err
	}

	message := "User quotas updated successfully"
	if usage != nil {
		message = "User quotas and usage updated successfully"
	}

	s.publish(ctx, events.Event{
		Type:    events.EventQuotaUpdated,
		UserID:  userID,
		Payload: events.QuotaUpdatedPayload{UpdatedData: updatedData},
	})
	return updatedData, message, nil
}

// CheckOrder runs the advisory admission check against a proposed order
// without recording anything. It applies the same comparison semantics as
// the enforcing path at order creation.
func (s *QuotaService) CheckOrder(ctx context.Context, userID string, orderValueCents int64, productCount int) (*QuotaView, *quota.Violation, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, apperrors.NewNotFound("user", nil)
		}
		return nil, nil, err
	}

	violation := quota.Evaluate(user.Quotas, user.Usage, quota.Request{
		TotalAmountCents: orderValueCents,
		ProductCount:     productCount,
	}, s.now().UTC())

	view := &QuotaView{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Quotas:   user.Quotas,
		Usage:    user.Usage,
	}
	return view, violation, nil
}

func (s *QuotaService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

func clampInt(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func clampCents(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
