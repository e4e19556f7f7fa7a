package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"swap-service/internal/presence"
	"swap-service/internal/repositories"
	"swap-service/internal/telemetry"
	"swap-service/internal/ws"
)

// SwapHandler manages swap-request endpoints.
type SwapHandler struct {
	swaps    repositories.SwapRepository
	presence presence.Store
	hub      *ws.Hub
	audit    *telemetry.AuditEmitter
}

// NewSwapHandler builds a SwapHandler.
func NewSwapHandler(swaps repositories.SwapRepository, store presence.Store, hub *ws.Hub, audit *telemetry.AuditEmitter) *SwapHandler {
	return &SwapHandler{swaps: swaps, presence: store, hub: hub, audit: audit}
}

// DeleteSwapRequest removes a swap request and both of its child collections
// through the batched subtree delete.
func (h *SwapHandler) DeleteSwapRequest(c *gin.Context) {
	swapID := c.Param("swap_request_id")
	if swapID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "swapRequestId is required"})
		return
	}

	if err := h.swaps.DeleteSwapRequestTree(c.Request.Context(), swapID); err != nil {
		if errors.Is(err, repositories.ErrSwapNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "swap request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.presence.ClearSwap(c.Request.Context(), swapID); err != nil {
		log.Printf("clear presence failed for swap %s: %v", swapID, err)
	}
	h.hub.BroadcastDeleted(swapID)
	h.audit.Emit(c.Request.Context(), "INFO", "swap request deleted", requestIDFromContext(c), userUIDFromContext(c))

	c.JSON(http.StatusOK, gin.H{"message": "swap request deleted"})
}

// PostSwapMessage stores a message in the swap conversation and broadcasts it.
func (h *SwapHandler) PostSwapMessage(c *gin.Context) {
	swapID := c.Param("swap_request_id")
	userUID := userUIDFromContext(c)

	swap, err := h.swaps.GetSwapRequest(c.Request.Context(), swapID)
	if err != nil {
		if errors.Is(err, repositories.ErrSwapNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "swap request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load swap request"})
		return
	}
	if swap.RequesterUID != userUID && swap.ResponderUID != userUID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a swap participant"})
		return
	}

	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body is required"})
		return
	}

	msg, err := h.swaps.CreateSwapMessage(c.Request.Context(), swapID, userUID, req.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store message"})
		return
	}

	h.hub.BroadcastMessage(swapID, msg)
	c.JSON(http.StatusCreated, msg)
}

// Heartbeat records the caller's presence in the swap conversation, both in
// the live store and as a persisted presence row.
func (h *SwapHandler) Heartbeat(c *gin.Context) {
	swapID := c.Param("swap_request_id")
	userUID := userUIDFromContext(c)

	swap, err := h.swaps.GetSwapRequest(c.Request.Context(), swapID)
	if err != nil {
		if errors.Is(err, repositories.ErrSwapNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "swap request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load swap request"})
		return
	}
	if swap.RequesterUID != userUID && swap.ResponderUID != userUID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a swap participant"})
		return
	}

	if err := h.swaps.TouchPresence(c.Request.Context(), swapID, userUID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record presence"})
		return
	}
	if err := h.presence.Heartbeat(c.Request.Context(), swapID, userUID); err != nil {
		log.Printf("presence heartbeat failed for swap %s: %v", swapID, err)
	}

	h.hub.BroadcastPresence(swapID, userUID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// OnlineParticipants lists users currently live in the swap conversation.
func (h *SwapHandler) OnlineParticipants(c *gin.Context) {
	swapID := c.Param("swap_request_id")

	online, err := h.presence.OnlineParticipants(c.Request.Context(), swapID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load presence"})
		return
	}
	if online == nil {
		online = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"online": online})
}
