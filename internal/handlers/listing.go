package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"swap-service/internal/events"
	"swap-service/internal/models"
	"swap-service/internal/observability"
	"swap-service/internal/rabbitmq"
	"swap-service/internal/repositories"
	"swap-service/internal/search"
)

// ListingHandler manages listing endpoints.
type ListingHandler struct {
	listings  repositories.ListingRepository
	index     search.ListingIndex
	publisher rabbitmq.Publisher
}

// NewListingHandler builds a ListingHandler.
func NewListingHandler(listings repositories.ListingRepository, index search.ListingIndex, publisher rabbitmq.Publisher) *ListingHandler {
	return &ListingHandler{listings: listings, index: index, publisher: publisher}
}

// CreateListing inserts a listing owned by the caller and publishes the
// created event that drives owner denormalization and search indexing.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	ownerUID := userUIDFromContext(c)
	listing, err := h.listings.CreateListing(c.Request.Context(), models.Listing{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		OwnerUID:    ownerUID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create listing"})
		return
	}

	if err := h.publisher.Publish(c.Request.Context(), events.RoutingKeyListingCreated, models.ListingCreatedEvent{
		ListingID: listing.ID,
		OwnerUID:  ownerUID,
	}); err != nil {
		log.Printf("publish listing.created failed: %v", err)
	}

	c.JSON(http.StatusCreated, listing)
}

// DeleteListing removes a listing after verifying the caller owns it.
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	listingID := c.Param("listing_id")
	userUID := userUIDFromContext(c)

	listing, err := h.listings.GetListing(c.Request.Context(), listingID)
	if err != nil {
		if errors.Is(err, repositories.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load listing"})
		return
	}
	if listing.OwnerUID != userUID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the listing owner"})
		return
	}

	if err := h.listings.DeleteListing(c.Request.Context(), listingID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete listing"})
		return
	}

	err = h.index.DeleteListing(c.Request.Context(), listingID)
	observability.IncSearchOp("delete", err)
	if err != nil {
		// The document is gone; a stale search record is logged, not fatal.
		log.Printf("search de-index failed for listing %s: %v", listingID, err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
