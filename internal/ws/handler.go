package ws

import (
	"net/http"
	"strings"

	"alumni-connect/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	hub    *Hub
	logger *zap.Logger
}

func NewHandler(hub *Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{hub: hub, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleNotifications upgrades GET /ws?user_id=... into a push channel for
// that user's waitlist notifications. Behind the auth middleware the token
// subject is the user and a different user_id is refused.
func (h *Handler) HandleNotifications(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	userID := strings.TrimSpace(c.Query("user_id"))
	if tokenID, ok := middleware.AuthenticatedUserID(c); ok {
		if userID != "" && userID != tokenID {
			return fiber.NewError(fiber.StatusForbidden, "user_id does not match token")
		}
		userID = tokenID
	}
	if userID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user_id is required")
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws upgrade failed", zap.String("user_id", userID), zap.Error(err))
			return
		}

		client := NewClient(h.hub, conn, userID)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
