package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"swap-service/internal/models"
	"swap-service/internal/observability"
)

const swapEventsRoutingKey = "ws_events.swaps"

// Hub maintains active websocket rooms, one per swap conversation.
type Hub struct {
	rooms    map[string]map[*websocket.Conn]bool
	connInfo map[string]map[*websocket.Conn]ConnInfo
	mu       sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[string]map[*websocket.Conn]bool),
		connInfo: make(map[string]map[*websocket.Conn]ConnInfo),
	}
}

// AddClient registers a websocket connection to a swap room.
func (h *Hub) AddClient(swapID string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[swapID]; !ok {
		h.rooms[swapID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[swapID][conn] = true
	if _, ok := h.connInfo[swapID]; !ok {
		h.connInfo[swapID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.connInfo[swapID][conn] = info
}

// RemoveClient removes a websocket connection from a swap room.
func (h *Hub) RemoveClient(swapID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[swapID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, swapID)
		}
	}
	if infos, ok := h.connInfo[swapID]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.connInfo, swapID)
		}
	}
}

// BroadcastMessage sends a new message to all clients in a swap room.
func (h *Hub) BroadcastMessage(swapID string, msg models.SwapMessage) {
	h.broadcast(swapID, models.SwapEvent{Type: "message", Message: &msg})
}

// BroadcastPresence notifies a swap room that a user checked in.
func (h *Hub) BroadcastPresence(swapID, userUID string) {
	h.broadcast(swapID, models.SwapEvent{Type: "presence", UserUID: userUID})
}

// BroadcastDeleted notifies a swap room that the swap request itself was
// removed.
func (h *Hub) BroadcastDeleted(swapID string) {
	h.broadcast(swapID, models.SwapEvent{Type: "swap_deleted"})
}

func (h *Hub) broadcast(swapID string, event models.SwapEvent) {
	h.mu.RLock()
	conns := h.rooms[swapID]
	h.mu.RUnlock()

	payload, _ := json.Marshal(event)
	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.publishWSError(swapID, conn, err)
			h.RemoveClient(swapID, conn)
		}
	}
}

func (h *Hub) publishWSError(swapID string, conn *websocket.Conn, err error) {
	info, ok := h.getConnInfo(swapID, conn)
	if !ok {
		return
	}

	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"swap_id":     swapID,
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"user_uid":  info.UserUID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}

	_ = observability.PublishEvent(context.Background(), swapEventsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	})
	observability.IncWSEvent("ws_error")
}

func (h *Hub) getConnInfo(swapID string, conn *websocket.Conn) (ConnInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if infos, ok := h.connInfo[swapID]; ok {
		info, exists := infos[conn]
		return info, exists
	}
	return ConnInfo{}, false
}
