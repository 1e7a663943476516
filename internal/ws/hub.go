package ws

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type envelope struct {
	userID  string
	message []byte
}

// Hub tracks live connections per user and routes direct messages to them.
// A user may hold several connections; each receives a copy.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	direct     chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		direct:     make(chan envelope, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves registrations and deliveries until ctx is done, then closes every
// client's send queue. Run must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mutex.Lock()
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = make(map[string]map[*Client]struct{})
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			h.mutex.Unlock()
			h.logger.Debug("ws connected", zap.String("user_id", client.userID), zap.Int("total_clients", h.ClientCount()))

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.remove(client)
			h.logger.Debug("ws disconnected", zap.String("user_id", client.userID), zap.Int("total_clients", h.ClientCount()))

		case env := <-h.direct:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients[env.userID]))
			for c := range h.clients[env.userID] {
				targets = append(targets, c)
			}
			h.mutex.RUnlock()

			for _, c := range targets {
				select {
				case c.send <- env.message:
				default:
					// Slow consumer.
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
}

// Register hands client to the hub. Once the hub has stopped the client's
// queue is closed instead, so its WritePump shuts the connection.
func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister never blocks after the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendTo queues message for every connection of userID. It never blocks; a
// full queue drops the message.
func (h *Hub) SendTo(userID string, message []byte) bool {
	if h == nil || userID == "" {
		return false
	}
	select {
	case h.direct <- envelope{userID: userID, message: message}:
		return true
	default:
		h.logger.Warn("ws message dropped", zap.String("user_id", userID), zap.String("reason", "buffer_full"))
		return false
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

func (h *Hub) Connected(userID string) bool {
	if h == nil {
		return false
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID]) > 0
}
