package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-service/internal/api/dto"
	"github.com/spec-kit/storefront-service/internal/auth"
	"github.com/spec-kit/storefront-service/internal/domain"
)

// DiscountService is the redemption surface consumed by the handler.
type DiscountService interface {
	ListTiers() []domain.DiscountTier
	CurrentPoints(ctx context.Context, userID string) (int, error)
	Redeem(ctx context.Context, userID string, percent int) (int, int, error)
}

// DiscountHandler exposes discount tier and points endpoints.
type DiscountHandler struct {
	discounts DiscountService
}

// NewDiscountHandler constructs handler.
func NewDiscountHandler(discounts DiscountService) *DiscountHandler {
	return &DiscountHandler{discounts: discounts}
}

// Options handles GET /discount/options. Public, no auth.
func (h *DiscountHandler) Options(c *fiber.Ctx) error {
	return c.JSON(h.discounts.ListTiers())
}

// Points handles GET /discount/points for the authenticated caller.
func (h *DiscountHandler) Points(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	points, err := h.discounts.CurrentPoints(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.PointsResponse{Points: points})
}

// Apply handles POST /discount/apply for the authenticated caller.
func (h *DiscountHandler) Apply(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.ApplyDiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	applied, updatedPoints, err := h.discounts.Redeem(c.UserContext(), principal.ID, req.Discount)
	if err != nil {
		return err
	}
	return c.JSON(dto.ApplyDiscountResponse{Discount: applied, UpdatedPoints: updatedPoints})
}
