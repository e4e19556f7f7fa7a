package ws

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"swap-service/internal/auth"
	"swap-service/internal/observability"
	"swap-service/internal/repositories"
)

// SwapWebSocketHandler handles swap-conversation websocket connections.
type SwapWebSocketHandler struct {
	hub      *Hub
	swapRepo repositories.SwapRepository
	verifier auth.TokenVerifier
}

// NewSwapWebSocketHandler constructs a SwapWebSocketHandler.
func NewSwapWebSocketHandler(hub *Hub, swapRepo repositories.SwapRepository, verifier auth.TokenVerifier) *SwapWebSocketHandler {
	return &SwapWebSocketHandler{hub: hub, swapRepo: swapRepo, verifier: verifier}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and registers the client in the swap room.
func (h *SwapWebSocketHandler) Handle(c *gin.Context) {
	swapID := c.Param("swap_request_id")
	if swapID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid swap request id"})
		return
	}

	ctx, span := otel.Tracer("swap-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := c.GetHeader("Authorization")
	if token == "" {
		token = c.Query("token")
		if token != "" {
			token = "Bearer " + token
		}
	}

	userUID, err := h.validateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	swap, err := h.swapRepo.GetSwapRequest(c.Request.Context(), swapID)
	if err != nil || (swap.RequesterUID != userUID && swap.ResponderUID != userUID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for swap"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	info := ConnInfo{
		ConnID:      newConnID(),
		UserUID:     userUID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(swapID, conn, info)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	_ = observability.PublishEvent(ctx, swapEventsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload:   wsEventPayload(swapID, "ws_connect", info, 0, ""),
	})

	// Keep the connection alive and clean up on close.
	go func() {
		var closeReason string
		defer func() {
			h.hub.RemoveClient(swapID, conn)
			observability.DecWSActive()
			observability.IncWSEvent("ws_disconnect")
			_ = observability.PublishEvent(ctx, swapEventsRoutingKey, observability.EventEnvelope{
				EventType: "ws_events",
				EventName: "ws_disconnect",
				Payload:   wsEventPayload(swapID, "ws_disconnect", info, time.Since(info.ConnectedAt).Milliseconds(), closeReason),
			})
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("ws_error")
					_ = observability.PublishEvent(ctx, swapEventsRoutingKey, observability.EventEnvelope{
						EventType: "ws_events",
						EventName: "ws_error",
						Payload:   wsEventPayload(swapID, "ws_error", info, time.Since(info.ConnectedAt).Milliseconds(), closeReason),
					})
				}
				return
			}
		}
	}()
}

func (h *SwapWebSocketHandler) validateToken(header string) (string, error) {
	parts := strings.Split(header, " ")
	if len(parts) == 2 {
		return h.verifier.VerifyToken(parts[1])
	}
	return "", fmt.Errorf("invalid token")
}

func wsEventPayload(swapID, event string, info ConnInfo, durationMS int64, reason string) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"swap_id":     swapID,
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": durationMS,
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_uid":  info.UserUID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
}
