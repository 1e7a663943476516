package middleware

import (
	"time"

	"alumni-connect/internal/metrics"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-ID"

type AccessLogMiddleware struct {
	logger  *zap.Logger
	metrics *metrics.Manager
}

func NewAccessLogMiddleware(logger *zap.Logger, m *metrics.Manager) *AccessLogMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessLogMiddleware{logger: logger, metrics: m}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		err := c.Next()

		dur := time.Since(start)
		status := c.Response().StatusCode()
		method := c.Method()

		// Route templates keep metric cardinality bounded.
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}

		m.metrics.ObserveHTTP(method, route, status, dur)
		m.logger.Info("http access",
			zap.String("rid", rid),
			zap.String("ip", c.IP()),
			zap.String("method", method),
			zap.String("path", c.OriginalURL()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", dur),
			zap.Int("req_bytes", c.Request().Header.ContentLength()),
			zap.Int("resp_bytes", len(c.Response().Body())),
			zap.String("ua", c.Get(fiber.HeaderUserAgent)),
		)

		return err
	}
}
