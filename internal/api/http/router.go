package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-service/internal/api/http/handlers"
	"github.com/spec-kit/storefront-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Orders         *handlers.OrdersHandler
	Discount       *handlers.DiscountHandler
	Quotas         *handlers.QuotasHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)

	discount := app.Group("/discount")
	discount.Get("/options", cfg.Discount.Options)
	discount.Get("/points", cfg.AuthMiddleware.Handle, auth.RequireUser(), cfg.Discount.Points)
	discount.Post("/apply", cfg.AuthMiddleware.Handle, auth.RequireUser(), cfg.Discount.Apply)

	orders := app.Group("/orders", cfg.AuthMiddleware.Handle, auth.RequireUser())
	orders.Post("/", cfg.Orders.Create)
	orders.Get("/", auth.RequireAdmin(), cfg.Orders.ListAll)
	orders.Get("/user/:username", cfg.Orders.ListByUser)
	orders.Patch("/:orderId/status", auth.RequireAdmin(), cfg.Orders.UpdateStatus)
	orders.Patch("/:orderId/tracking", auth.RequireAdmin(), cfg.Orders.UpdateTracking)

	quotas := app.Group("/quotas", cfg.AuthMiddleware.Handle, auth.RequireUser())
	quotas.Get("/users/:userId", cfg.Quotas.Get)
	quotas.Put("/users/:userId", auth.RequireAdmin(), cfg.Quotas.Set)
	quotas.Post("/check-order/:userId", cfg.Quotas.CheckOrder)
}
