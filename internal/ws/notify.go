package ws

import (
	"context"
	"encoding/json"
	"time"

	"alumni-connect/internal/usecase"

	"go.uber.org/zap"
)

const EventTypeWaitlistPromoted = "waitlist_promoted"

type WaitlistPromotedEvent struct {
	Type       string `json:"type"`
	EventID    string `json:"event_id"`
	EventTitle string `json:"event_title,omitempty"`
	UserID     string `json:"user_id"`
	Timestamp  string `json:"timestamp"`
}

// Notifier pushes promotion messages to the promoted user's connections.
// Users without a live connection simply miss the push; the registration
// itself is already stored.
type Notifier struct {
	hub    *Hub
	logger *zap.Logger
	now    func() time.Time
}

var _ usecase.PromotionNotifier = (*Notifier)(nil)

func NewNotifier(hub *Hub, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{hub: hub, logger: logger, now: time.Now}
}

func (n *Notifier) NotifyPromoted(_ context.Context, p usecase.Promotion) {
	if n == nil || n.hub == nil {
		return
	}

	b, err := json.Marshal(WaitlistPromotedEvent{
		Type:       EventTypeWaitlistPromoted,
		EventID:    p.EventID,
		EventTitle: p.EventTitle,
		UserID:     p.UserID,
		Timestamp:  n.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		n.logger.Warn("encode promotion", zap.Error(err))
		return
	}

	if !n.hub.Connected(p.UserID) {
		n.logger.Debug("promoted user offline", zap.String("user_id", p.UserID), zap.String("event_id", p.EventID))
	}
	n.hub.SendTo(p.UserID, b)
}
