package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-service/internal/api/dto"
	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/quota"
	"github.com/spec-kit/storefront-service/internal/service"
)

// OrderService is the order workflow surface consumed by the handler.
type OrderService interface {
	Create(ctx context.Context, draft service.OrderDraft) (*domain.Order, *quota.Violation, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListByUsername(ctx context.Context, username string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	UpdateTracking(ctx context.Context, orderID, trackingNumber, shippingCarrier string) (*domain.Order, error)
}

// OrdersHandler exposes order endpoints.
type OrdersHandler struct {
	orders OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// Create handles POST /orders.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	var req dto.OrderCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	order, violation, err := h.orders.Create(c.UserContext(), service.OrderDraft{
		Username:         req.Username,
		TotalAmountCents: domain.UnitsToCents(req.TotalAmount),
		Products:         req.Products,
		Address:          req.Address,
		Payment:          req.Payment,
		Variant:          req.Variant,
	})
	if err != nil {
		return err
	}
	if violation != nil {
		return writeQuotaViolation(c, violation)
	}

	return c.Status(http.StatusCreated).JSON(dto.NewOrderResponse(order))
}

// ListAll handles GET /orders.
func (h *OrdersHandler) ListAll(c *fiber.Ctx) error {
	orders, err := h.orders.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderResponses(orders))
}

// ListByUser handles GET /orders/user/:username.
func (h *OrdersHandler) ListByUser(c *fiber.Ctx) error {
	username := c.Params("username")
	orders, err := h.orders.ListByUsername(c.UserContext(), username)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderResponses(orders))
}

// UpdateStatus handles PATCH /orders/:orderId/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.OrderStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.orders.UpdateStatus(c.UserContext(), c.Params("orderId"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderResponse(order))
}

// UpdateTracking handles PATCH /orders/:orderId/tracking.
func (h *OrdersHandler) UpdateTracking(c *fiber.Ctx) error {
	var req dto.OrderTrackingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.orders.UpdateTracking(c.UserContext(), c.Params("orderId"), req.TrackingNumber, req.ShippingCarrier)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderResponse(order))
}
