package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alumni-connect/internal/config"
	"alumni-connect/internal/delivery/http/handler"
	"alumni-connect/internal/delivery/http/middleware"
	"alumni-connect/internal/delivery/http/routes"
	"alumni-connect/internal/delivery/http/validation"
	"alumni-connect/internal/pkg/jwt"
	"alumni-connect/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// tokenTTL only bounds tokens minted by this process; verification uses the
// expiry carried in each token.
const tokenTTL = time.Hour

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName: c.Config.App.AppName,
	})

	registerGlobalMiddleware(f, c)
	registry(c).Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects dependencies, starts the websocket hub and returns the
// app with a cleanup that stops the hub and closes the stores.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	go c.Hub.Run(hubCtx)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return New(c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(c.Logger.Named("http"), c.Metrics)
	errMw := middleware.NewErrorMiddleware(c.Logger.Named("http"))
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func registry(c *Container) *routes.Registry {
	v := validation.New()

	checks := map[string]handler.Pinger{"postgres": c.DB}
	if c.Cache.Enabled() {
		checks["redis"] = c.Cache
	}

	return &routes.Registry{
		Health:     handler.NewHealthHandler(checks),
		Match:      handler.NewMatchHandler(c.Matching, v),
		Events:     handler.NewEventHandler(c.Registration, v),
		Mentorship: handler.NewMentorshipHandler(c.Mentorship, v),
		WS:         ws.NewHandler(c.Hub, c.Logger.Named("ws")),
		Auth:       authMiddleware(c.Config.JWT),
		Metrics:    c.Metrics.Handler(),
	}
}

func authMiddleware(cfg config.JWTConfig) *middleware.AuthMiddleware {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return middleware.NewAuthMiddleware(nil)
	}
	return middleware.NewAuthMiddleware(jwt.NewHMACService(secret, tokenTTL))
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
