package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"swap-service/internal/repositories"
)

const defaultAdminLimit = 100

// AdminHandler exposes read-only collection listings for the back office.
// Routes using it must sit behind the admin-only middleware.
type AdminHandler struct {
	profiles repositories.ProfileRepository
	listings repositories.ListingRepository
	swaps    repositories.SwapRepository
}

// NewAdminHandler builds an AdminHandler.
func NewAdminHandler(profiles repositories.ProfileRepository, listings repositories.ListingRepository, swaps repositories.SwapRepository) *AdminHandler {
	return &AdminHandler{profiles: profiles, listings: listings, swaps: swaps}
}

func adminLimit(c *gin.Context) int {
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 && limit <= 1000 {
			return limit
		}
	}
	return defaultAdminLimit
}

// ListUsers returns the most recent profiles.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	profiles, err := h.profiles.ListProfiles(c.Request.Context(), adminLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": profiles, "count": len(profiles)})
}

// ListListings returns the most recent listings.
func (h *AdminHandler) ListListings(c *gin.Context) {
	listings, err := h.listings.ListListings(c.Request.Context(), adminLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load listings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": listings, "count": len(listings)})
}

// ListMessages returns the most recent swap messages.
func (h *AdminHandler) ListMessages(c *gin.Context) {
	msgs, err := h.swaps.ListSwapMessages(c.Request.Context(), adminLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": msgs, "count": len(msgs)})
}
