package routes

import (
	"net/http"

	"alumni-connect/internal/delivery/http/handler"
	"alumni-connect/internal/delivery/http/middleware"
	"alumni-connect/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

// Registry owns every HTTP entry point of the service.
type Registry struct {
	Health     *handler.HealthHandler
	Match      *handler.MatchHandler
	Events     *handler.EventHandler
	Mentorship *handler.MentorshipHandler
	WS         *ws.Handler
	Auth       *middleware.AuthMiddleware
	Metrics    http.Handler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	r.registerOps(app)
	r.registerAPI(app)
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	if r.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.Metrics))
	}
	if r.WS != nil {
		app.Get("/ws", r.Auth.Middleware(), r.WS.HandleNotifications)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1", r.Auth.Middleware()), r)
}
