package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/provider-registration/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Providers *handlers.ProvidersHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	providers := app.Group("/api/v1/providers")
	providers.Post("/register", cfg.Providers.Register)
	providers.Get("/verify", cfg.Providers.VerifyEmail)
	providers.Get("/specializations", cfg.Providers.Specializations)
	providers.Get("/password-requirements", cfg.Providers.PasswordRequirements)
}
