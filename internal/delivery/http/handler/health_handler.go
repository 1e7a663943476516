package handler

import (
	"context"
	"time"

	"alumni-connect/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger is any dependency whose liveness gates /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	healthy := true
	for name, p := range h.checks {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		return response.Error(c, fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, status)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, status)
}
