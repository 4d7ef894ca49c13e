package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/support-portal/internal/api/http/handlers"
	"github.com/spec-kit/support-portal/internal/auth"
	"github.com/spec-kit/support-portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Conversations  *handlers.ConversationsHandler
	Dispatch       *handlers.DispatchHandler
	AuthMiddleware *auth.Middleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Get("/conversations", cfg.Conversations.ListConversations)

	internal := app.Group("/internal", cfg.AuthMiddleware.Handle, auth.RequireStaffOrAdmin())
	internal.Post("/tickets/dispatch", cfg.Dispatch.DispatchTicket)
}
