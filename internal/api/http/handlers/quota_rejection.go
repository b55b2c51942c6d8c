package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/quota"
)

// writeQuotaViolation serializes a quota rejection in the flat wire shape
// clients depend on: {error, limit, used|requested}. Daily-limit rejections
// are 429, product-count and order-value rejections are 400. Value limits
// are reported in currency units.
func writeQuotaViolation(c *fiber.Ctx, v *quota.Violation) error {
	switch v.Kind {
	case quota.ViolationDailyLimit:
		return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{
			"error": v.Reason,
			"limit": v.Limit,
			"used":  v.Used,
		})
	case quota.ViolationOrderValue:
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error":     v.Reason,
			"limit":     domain.CentsToUnits(v.Limit),
			"requested": domain.CentsToUnits(v.Requested),
		})
	default:
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error":     v.Reason,
			"limit":     v.Limit,
			"requested": v.Requested,
		})
	}
}
