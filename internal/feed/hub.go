package feed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/deep-thoughts/backend/internal/common/logger"
	thoughtdomain "github.com/deep-thoughts/backend/internal/thought/domain"
)

const sendBufferSize = 16

type thoughtEvent struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	ThoughtText string    `json:"thoughtText"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Hub broadcasts newly created thoughts to every connected feed client.
// It is broadcast-only: clients never send anything meaningful, and a
// client that cannot keep up is dropped rather than blocking the rest.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	log     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

// PublishThought implements the thought service's Publisher.
func (h *Hub) PublishThought(thought thoughtdomain.Thought) {
	payload, err := json.Marshal(thoughtEvent{
		Type:        "thought",
		ID:          string(thought.ID),
		ThoughtText: thought.Body,
		Username:    thought.Username,
		CreatedAt:   thought.CreatedAt,
	})
	if err != nil {
		h.log.Errorf("feed: failed to marshal thought event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// Slow consumer. Drop it; the feed is best-effort.
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// ClientCount is used by tests and the shutdown log line.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
