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

// QuotaService is the quota admin surface consumed by the handler.
type QuotaService interface {
	GetQuotas(ctx context.Context, userID string) (*service.QuotaView, error)
	SetQuotas(ctx context.Context, userID string, quotas *service.QuotaFieldsInput, usage *service.UsageFieldsInput) (map[string]any, string, error)
	CheckOrder(ctx context.Context, userID string, orderValueCents int64, productCount int) (*service.QuotaView, *quota.Violation, error)
}

// QuotasHandler exposes quota administration and the advisory check.
type QuotasHandler struct {
	quotas QuotaService
}

// NewQuotasHandler constructs handler.
func NewQuotasHandler(quotas QuotaService) *QuotasHandler {
	return &QuotasHandler{quotas: quotas}
}

// Get handles GET /quotas/users/:userId.
func (h *QuotasHandler) Get(c *fiber.Ctx) error {
	view, err := h.quotas.GetQuotas(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuotaViewResponse(view))
}

// Set handles PUT /quotas/users/:userId.
func (h *QuotasHandler) Set(c *fiber.Ctx) error {
	var req dto.QuotaUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	updatedData, message, err := h.quotas.SetQuotas(c.UserContext(), c.Params("userId"), req.Quotas, req.Usage)
	if err != nil {
		return err
	}
	return c.JSON(dto.QuotaUpdateResponse{
		Success:     true,
		Message:     message,
		UpdatedData: updatedData,
	})
}

// CheckOrder handles POST /quotas/check-order/:userId. It reports whether a
// proposed order would be admitted without recording anything.
func (h *QuotasHandler) CheckOrder(c *fiber.Ctx) error {
	var req dto.CheckOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	view, violation, err := h.quotas.CheckOrder(c.UserContext(), c.Params("userId"),
		domain.UnitsToCents(req.OrderValue), req.ProductCount)
	if err != nil {
		return err
	}
	if violation != nil {
		return writeQuotaViolation(c, violation)
	}

	return c.JSON(dto.CheckOrderResponse{
		CanOrder: true,
		Quotas:   dto.NewQuotasView(view.Quotas),
		Usage:    dto.NewUsageView(view.Usage),
	})
}
