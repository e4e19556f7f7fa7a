package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swap-service/internal/mailer"
	"swap-service/internal/observability"
)

// EmailHandler dispatches transactional email.
type EmailHandler struct {
	mailer mailer.Mailer
}

// NewEmailHandler builds an EmailHandler.
func NewEmailHandler(m mailer.Mailer) *EmailHandler {
	return &EmailHandler{mailer: m}
}

// SendContact forwards a contact-form submission to the support inbox.
func (h *EmailHandler) SendContact(c *gin.Context) {
	var req struct {
		FromName  string `json:"fromName"`
		FromEmail string `json:"fromEmail"`
		Subject   string `json:"subject"`
		Body      string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.FromEmail == "" || req.Body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fromEmail and body are required"})
		return
	}

	err := h.mailer.SendContact(c.Request.Context(), mailer.ContactEmail{
		FromName:  req.FromName,
		FromEmail: req.FromEmail,
		Subject:   req.Subject,
		Body:      req.Body,
	})
	observability.IncEmail("contact", err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email sent"})
}

// SendSwapOffer notifies a listing owner about a proposed swap.
func (h *EmailHandler) SendSwapOffer(c *gin.Context) {
	var req struct {
		ToEmail      string `json:"toEmail"`
		ToUsername   string `json:"toUsername"`
		FromUsername string `json:"fromUsername"`
		ListingTitle string `json:"listingTitle"`
		OfferedScent string `json:"offeredScent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ToEmail == "" || req.FromUsername == "" || req.ListingTitle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "toEmail, fromUsername and listingTitle are required"})
		return
	}

	err := h.mailer.SendSwapOffer(c.Request.Context(), mailer.SwapEmail{
		ToEmail:      req.ToEmail,
		ToUsername:   req.ToUsername,
		FromUsername: req.FromUsername,
		ListingTitle: req.ListingTitle,
		OfferedScent: req.OfferedScent,
	})
	observability.IncEmail("swap_offer", err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email sent"})
}
