package websocket

import (
	"encoding/json"
	"sync"

	"github.com/KirkDiggler/zonk/internal/models"
	"github.com/rs/zerolog"
)

// DefaultSendBuffer is the number of outbound frames queued per connection
const DefaultSendBuffer = 64

// HubConfig holds configuration for the hub
type HubConfig struct {
	// SendBuffer bounds each connection's outbound queue
	SendBuffer int

	Logger *zerolog.Logger
}

// Hub tracks live connections and the rooms they listen to. It implements
// game.Broadcaster; every send is non-blocking and a connection that cannot
// keep up is dropped.
type Hub struct {
	sendBuffer int
	log        zerolog.Logger

	mu    sync.RWMutex
	conns map[string]*Conn
	rooms map[string]map[string]struct{}
}

// NewHub creates an empty hub
func NewHub(cfg *HubConfig) *Hub {
	h := &Hub{
		sendBuffer: DefaultSendBuffer,
		log:        zerolog.Nop(),
		conns:      make(map[string]*Conn),
		rooms:      make(map[string]map[string]struct{}),
	}

	if cfg != nil {
		if cfg.SendBuffer > 0 {
			h.sendBuffer = cfg.SendBuffer
		}
		if cfg.Logger != nil {
			h.log = cfg.Logger.With().Str("component", "hub").Logger()
		}
	}

	return h
}

// Register starts delivering to c
func (h *Hub) Register(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.id] = c
}

// Unregister forgets a connection and closes its queue
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	c, ok := h.conns[connID]
	delete(h.conns, connID)
	for roomID, members := range h.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()

	if ok {
		c.closeSend()
	}
}

// Join subscribes a connection to a room's broadcasts
func (h *Hub) Join(roomID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		h.rooms[roomID] = members
	}
	members[connID] = struct{}{}
}

// Leave unsubscribes a connection from a room
func (h *Hub) Leave(roomID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// Broadcast queues msg for every connection in the room
func (h *Hub) Broadcast(roomID string, msg *models.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Str("room_id", roomID).Str("type", string(msg.Type)).Msg("failed to marshal broadcast")
		return
	}

	var slow []string

	h.mu.RLock()
	for connID := range h.rooms[roomID] {
		c, ok := h.conns[connID]
		if !ok {
			continue
		}
		if !c.enqueue(data) {
			slow = append(slow, connID)
		}
	}
	h.mu.RUnlock()

	for _, connID := range slow {
		h.log.Warn().Str("room_id", roomID).Str("conn_id", connID).Msg("dropping slow connection")
		h.Unregister(connID)
	}
}

// Send queues msg for a single connection
func (h *Hub) Send(connID string, msg *models.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Str("conn_id", connID).Str("type", string(msg.Type)).Msg("failed to marshal message")
		return
	}

	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if !c.enqueue(data) {
		h.log.Warn().Str("conn_id", connID).Msg("dropping slow connection")
		h.Unregister(connID)
	}
}

// ConnCount returns the number of live connections
func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// members returns who is subscribed to a room
func (h *Hub) members(roomID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.rooms[roomID]))
	for id := range h.rooms[roomID] {
		ids = append(ids, id)
	}
	return ids
}
