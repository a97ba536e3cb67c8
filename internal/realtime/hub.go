package realtime

import (
	"sync"
)

// EventType names the logical category of a profile change.
type EventType string

const (
	EventProfile     EventType = "profile"
	EventLocation    EventType = "location"
	EventPreferences EventType = "preferences"
	EventTheme       EventType = "theme"
	EventLanguage    EventType = "language"
)

// Event is one typed profile-change notification delivered to a user's
// connected clients.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// Client represents a single connected client.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(ev Event) bool
	Close()
}

// Hub maintains active user connections and fans typed events out to them.
// It is constructed once in main and injected where needed.
type Hub struct {
	mu              sync.RWMutex
	userIDToClients map[string]map[Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		userIDToClients: make(map[string]map[Client]struct{}),
	}
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.userIDToClients[userID]; !ok {
		h.userIDToClients[userID] = make(map[Client]struct{})
	}
	h.userIDToClients[userID][client] = struct{}{}
}

// Unregister removes a client; if the user has no more clients, cleans up the map.
func (h *Hub) Unregister(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.userIDToClients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userIDToClients, userID)
		}
	}
}

// Publish sends an event to all clients of a user.
func (h *Hub) Publish(userID string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := h.userIDToClients[userID]
	for c := range clients {
		// A failed write is left for the ws handler's reader loop to reap.
		_ = c.Send(ev)
	}
}

// ClientCount returns the number of connected clients for a user.
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userIDToClients[userID])
}
