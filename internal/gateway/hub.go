package gateway

import (
	"log/slog"
	"sync"

	"github.com/zhuravskayyar/cardastica-server/internal/model"
)

// Hub tracks every connected client and the per-room subscription sets.
// Delivery is per-client and fire-and-forget: each client has a buffered
// send channel and a full buffer drops the frame for that client only, so a
// slow peer never blocks or fails the broadcast to others.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[model.RoomID]map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[model.RoomID]map[*Client]struct{}),
		logger:  logger.With(slog.String("component", "hub")),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("client connected",
		slog.String("conn", c.id),
		slog.Int("total_clients", total))
}

// Unregister removes a client from the hub and every room it joined, and
// closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	total := len(h.clients)
	h.mu.Unlock()

	c.closeSend()
	h.logger.Info("client disconnected",
		slog.String("conn", c.id),
		slog.Int("total_clients", total))
}

// Subscribe adds a client to a room's fan-out group. Subscriptions are
// many-to-many; joining twice is a no-op.
func (h *Hub) Subscribe(c *Client, room model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
}

// BroadcastAll delivers a frame to every connected client
func (h *Hub) BroadcastAll(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		h.deliver(c, frame)
	}
}

// BroadcastRoom delivers a frame to every subscriber of one room
func (h *Hub) BroadcastRoom(room model.RoomID, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		h.deliver(c, frame)
	}
}

func (h *Hub) deliver(c *Client, frame []byte) {
	if !c.Send(frame) {
		h.logger.Warn("frame dropped - client buffer full", slog.String("conn", c.id))
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomMemberCount returns how many clients are subscribed to a room
func (h *Hub) RoomMemberCount(room model.RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// CloseAll disconnects every client, used during shutdown. Closing the send
// channel makes each write pump emit a close frame and tear down its
// connection.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*Client]struct{})
	h.rooms = make(map[model.RoomID]map[*Client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.closeSend()
	}
}
