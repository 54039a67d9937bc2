package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-router/internal/api/http/handlers"
	"github.com/spec-kit/support-router/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Queries        *handlers.QueriesHandler
	Tickets        *handlers.TicketsHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/staff/login", cfg.Auth.Login)

	app.Post("/queries", cfg.Queries.ProcessQuery)
	app.Get("/tickets/:number", cfg.Tickets.GetTicket)

	staff := app.Group("", cfg.AuthMiddleware.Handle)
	staff.Patch("/tickets/:number/status", cfg.Tickets.UpdateStatus)
	staff.Get("/stats", cfg.Tickets.Stats)
}
