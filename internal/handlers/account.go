package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"swap-service/internal/events"
	"swap-service/internal/models"
	"swap-service/internal/rabbitmq"
	"swap-service/internal/repositories"
	"swap-service/internal/telemetry"
)

// AccountHandler manages profile endpoints.
type AccountHandler struct {
	profiles  repositories.ProfileRepository
	publisher rabbitmq.Publisher
	audit     *telemetry.AuditEmitter
}

// NewAccountHandler builds an AccountHandler.
func NewAccountHandler(profiles repositories.ProfileRepository, publisher rabbitmq.Publisher, audit *telemetry.AuditEmitter) *AccountHandler {
	return &AccountHandler{profiles: profiles, publisher: publisher, audit: audit}
}

// CreateAccount provisions the initial profile document. The write is an
// overwrite keyed by uid, so repeating it resets the profile to defaults.
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		UID      string `json:"uid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if req.Username == "" || req.Email == "" || req.UID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "username, email and uid are required"})
		return
	}

	if _, err := h.profiles.CreateProfile(c.Request.Context(), req.UID, req.Username, req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not create account"})
		return
	}

	_ = h.publisher.Publish(c.Request.Context(), events.RoutingKeyUserRegistered, models.UserRegisteredEvent{
		UID:      req.UID,
		Username: req.Username,
		Email:    req.Email,
	})
	h.audit.Emit(c.Request.Context(), "INFO", "account created", requestIDFromContext(c), req.UID)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CheckUsername probes the lowercase-name index for availability. The check
// is advisory: nothing reserves the name between this call and signup.
func (h *AccountHandler) CheckUsername(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Username) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	taken, err := h.profiles.UsernameTaken(c.Request.Context(), strings.ToLower(req.Username))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check username"})
		return
	}

	message := "Username is available"
	if taken {
		message = "Username is already taken"
	}
	c.JSON(http.StatusOK, gin.H{"isAvailable": !taken, "message": message})
}

// SaveAddress stores the user's formatted address plus optional structured
// components.
func (h *AccountHandler) SaveAddress(c *gin.Context) {
	var req struct {
		UserUID           string          `json:"userUid"`
		FormattedAddress  string          `json:"formattedAddress"`
		AddressComponents json.RawMessage `json:"addressComponents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if req.UserUID == "" || req.FormattedAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "userUid and formattedAddress are required"})
		return
	}

	profile, err := h.profiles.SaveAddress(c.Request.Context(), req.UserUID, req.FormattedAddress, req.AddressComponents)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not save address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
}
