package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/quota"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util/errorutil"
)

// OrderDraft describes an order creation payload. The total is trusted as
// supplied and never recomputed from the line items.
type OrderDraft struct {
	Username         string
	TotalAmountCents int64
	Products         []domain.OrderProduct
	Address          domain.Address
	Payment          domain.Payment
	Variant          string
}

// OrderService coordinates order workflows around the quota ledger.
type OrderService struct {
	orders     repository.OrderRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewOrderService constructs the service.
func NewOrderService(orders repository.OrderRepository, dispatcher events.Dispatcher) *OrderService {
	return &OrderService{
		orders:     orders,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Create admits and persists an order. A non-nil Violation means the order
// was rejected by quota policy; it is returned untouched so the transport
// layer can surface the exact limit and attempted values.
func (s *OrderService) Create(ctx context.Context, draft OrderDraft) (*domain.Order, *quota.Violation, error) {
	if draft.Username == "" {
		return nil, nil, apperrors.NewValidationError("username is required", nil)
	}
	if len(draft.Products) == 0 {
		return nil, nil, apperrors.NewValidationError("order must contain at least one product", nil)
	}
	if draft.TotalAmountCents <= 0 {
		return nil, nil, apperrors.NewValidationError("totalAmount must be positive", nil)
	}

	order := &domain.Order{
		Username:         draft.Username,
		TotalAmountCents: draft.TotalAmountCents,
		Products:         draft.Products,
		Address:          draft.Address,
		Payment:          draft.Payment,
		Variant:          draft.Variant,
		Status:           domain.OrderStatusPending,
	}

	violation, err := s.orders.CreateWithQuota(ctx, order, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, apperrors.NewNotFound("user", nil)
		}
		return nil, nil, err
	}
	if violation != nil {
		return nil, violation, nil
	}

	s.publish(ctx, events.Event{
		Type:     events.EventOrderCreated,
		Username: order.Username,
		Payload: events.OrderCreatedPayload{
			OrderID:      order.ID,
			TotalAmount:  float64(order.TotalAmountCents) / 100,
			ProductCount: len(order.Products),
			PointsEarned: quota.PointsEarned(order.TotalAmountCents),
		},
	})
	return order, nil, nil
}

// ListAll returns every order, newest first.
func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAll(ctx)
}

// ListByUsername returns a user's orders, newest first.
func (s *OrderService) ListByUsername(ctx context.Context, username string) ([]domain.Order, error) {
	return s.orders.ListByUsername(ctx, username)
}

// UpdateStatus transitions an order to a new fulfillment state.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, apperrors.NewValidationError("invalid order status", map[string]any{"status": status})
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperrors.NewNotFound("order", nil)
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventOrderStatusChange,
		Username: order.Username,
		Payload: events.OrderStatusChangePayload{
			OrderID:   order.ID,
			NewStatus: string(order.Status),
		},
	})
	return order, nil
}

// UpdateTracking records the shipping carrier and tracking number.
func (s *OrderService) UpdateTracking(ctx context.Context, orderID, trackingNumber, shippingCarrier string) (*domain.Order, error) {
	if trackingNumber == "" || shippingCarrier == "" {
		return nil, apperrors.NewValidationError("trackingNumber and shippingCarrier required", nil)
	}

	order, err := s.orders.UpdateTracking(ctx, orderID, trackingNumber, shippingCarrier)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperrors.NewNotFound("order", nil)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
