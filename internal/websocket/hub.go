package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"bizchat-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "chat_cluster_events"

type Hub struct {
	// Registered clients map: SessionID -> open tabs
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance communication, nil when disabled
	rdb        *redis.Client
	instanceID string

	// closed when Run returns
	done chan struct{}

	logger logger.ILogger
}

type clusterPayload struct {
	Origin          string          `json:"origin"`
	TargetSessionID string          `json:"target_session_id"`
	Message         json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client, 64),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		done:       make(chan struct{}),
		logger:     log,
	}
}

// Run serves registrations until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// attach blocks until Run accepts the client.
func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// detach never blocks past the hub's lifetime.
func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// remove detaches one client; its Send channel is closed exactly once.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Session has no open connections", map[string]interface{}{"session_id": client.SessionID})
	}
}

// Disconnect drops every connection of a torn-down session.
func (h *Hub) Disconnect(sessionID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients[sessionID] {
		close(client.Send)
	}
	delete(h.clients, sessionID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, clients := range h.clients {
		for _, client := range clients {
			close(client.Send)
		}
		delete(h.clients, id)
	}
}

// Connections reports how many tabs a session has open on this instance.
func (h *Hub) Connections(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Deliver pushes an already encoded event to a session locally and, when
// Redis is configured, to the other instances.
func (h *Hub) Deliver(ctx context.Context, sessionID uuid.UUID, data []byte) {
	h.deliverLocal(sessionID, data)

	if h.rdb != nil {
		jsonPayload, _ := json.Marshal(clusterPayload{
			Origin:          h.instanceID,
			TargetSessionID: sessionID.String(),
			Message:         data,
		})
		if err := h.rdb.Publish(ctx, clusterChannel, jsonPayload).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) deliverLocal(sessionID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"session_id": sessionID})
			go h.detach(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterPayload
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instanceID {
				continue
			}
			sid, err := uuid.Parse(payload.TargetSessionID)
			if err != nil {
				continue
			}
			h.deliverLocal(sid, payload.Message)
		}
	}
}
