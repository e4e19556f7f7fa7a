package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swap-service/internal/observability"
	"swap-service/internal/payments"
)

// CheckoutHandler creates hosted payment sessions.
type CheckoutHandler struct {
	checkout payments.CheckoutClient
}

// NewCheckoutHandler builds a CheckoutHandler.
func NewCheckoutHandler(checkout payments.CheckoutClient) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// CreateSession opens a checkout session with the payment provider and
// returns its id and redirect URL.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req struct {
		UserUID    string `json:"userUid"`
		Email      string `json:"email"`
		Currency   string `json:"currency"`
		SuccessURL string `json:"successUrl"`
		CancelURL  string `json:"cancelUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.UserUID == "" || req.SuccessURL == "" || req.CancelURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userUid, successUrl and cancelUrl are required"})
		return
	}

	session, err := h.checkout.CreateSession(c.Request.Context(), payments.CheckoutRequest{
		UserUID:    req.UserUID,
		Email:      req.Email,
		Currency:   req.Currency,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	observability.IncCheckoutSession(err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": session.ID, "url": session.URL})
}
