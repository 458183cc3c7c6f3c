package presence

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"

	domain "github.com/example/chat-app/domain/chat"
)

// Conn is the write half of a websocket connection. Narrowed to an
// interface so hub tests run against fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// textMessage matches websocket.TextMessage; declared here so the hub
// does not import the websocket package just for one constant.
const textMessage = 1

// Client is one connected websocket client. UserID is empty for
// anonymous connections, which are tolerated but never registered.
type Client struct {
	ID     string
	UserID string
	conn   Conn
	mu     sync.Mutex // serializes writes to conn
}

func (c *Client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(textMessage, data)
}

// Hub owns all live websocket connections and the presence registry.
// Connect, Disconnect and SendToUser are each one logical unit: the
// registry update and the resulting broadcast happen before the call
// returns, so a disconnect and a concurrent re-register for the same
// user cannot lose an update.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client // connID -> client
	registry *Registry
}

// NewHub creates a new Hub with an empty registry.
func NewHub() *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		registry: NewRegistry(),
	}
}

// Connect adds a websocket connection. If userID is non-empty the user
// is registered for push delivery, superseding (and closing) any prior
// connection for the same user, and the online set is broadcast to
// everyone. Returns the new connection id.
func (h *Hub) Connect(userID string, conn Conn) string {
	client := &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		conn:   conn,
	}

	h.mu.Lock()
	h.clients[client.ID] = client
	var superseded *Client
	if userID != "" {
		if prevID, ok := h.registry.Register(userID, client.ID); ok {
			superseded = h.clients[prevID]
			delete(h.clients, prevID)
		}
	}
	h.mu.Unlock()

	if superseded != nil {
		_ = superseded.conn.Close()
		log.Printf("[presence] Superseded connection %s for user %s", superseded.ID, userID)
	}
	if userID != "" {
		h.broadcastOnline()
	}
	return client.ID
}

// Disconnect removes a connection. The registry entry is dropped only if
// this connection is still the one registered for its user; the online
// set is broadcast when the entry was actually removed.
func (h *Hub) Disconnect(connID string) {
	h.mu.Lock()
	client, ok := h.clients[connID]
	if ok {
		delete(h.clients, connID)
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	if client.UserID != "" && h.registry.Unregister(client.UserID, connID) {
		h.broadcastOnline()
	}
}

// SendToUser pushes one event to the user's live connection, if any.
// At most one delivery attempt; a write failure is logged and swallowed
// because the payload is already durable.
func (h *Hub) SendToUser(userID, event string, payload any) bool {
	connID, ok := h.registry.Lookup(userID)
	if !ok {
		return false
	}

	h.mu.RLock()
	client := h.clients[connID]
	h.mu.RUnlock()
	if client == nil {
		return false
	}

	wire, err := domain.NewWireEvent(event, payload)
	if err != nil {
		log.Printf("[presence] Failed to marshal %s event: %v", event, err)
		return false
	}
	data, err := json.Marshal(wire)
	if err != nil {
		log.Printf("[presence] Failed to marshal %s envelope: %v", event, err)
		return false
	}

	if err := client.send(data); err != nil {
		log.Printf("[presence] Failed to push %s to user %s: %v", event, userID, err)
		return false
	}
	return true
}

// broadcastOnline sends the full online-id set to every connection,
// anonymous ones included. O(N) per churn event; fine at this scale.
func (h *Hub) broadcastOnline() {
	wire, err := domain.NewWireEvent(domain.EventOnlineUsers, h.registry.OnlineUserIDs())
	if err != nil {
		log.Printf("[presence] Failed to marshal online set: %v", err)
		return
	}
	data, err := json.Marshal(wire)
	if err != nil {
		log.Printf("[presence] Failed to marshal online envelope: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if err := client.send(data); err != nil {
			log.Printf("[presence] Failed to send online set to %s: %v", client.ID, err)
		}
	}
}

// OnlineUserIDs returns the sorted set of online user ids.
func (h *Hub) OnlineUserIDs() []string {
	return h.registry.OnlineUserIDs()
}

// IsOnline reports whether the user has a live connection.
func (h *Hub) IsOnline(userID string) bool {
	_, ok := h.registry.Lookup(userID)
	return ok
}

// ClientCount returns the total number of connections, anonymous included.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll closes every connection and clears all state.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		_ = client.conn.Close()
	}
	h.clients = make(map[string]*Client)
	h.registry = NewRegistry()
}
