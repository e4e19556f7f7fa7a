package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swap-service/internal/storage"
)

// UploadHandler hands out presigned upload targets for listing photos.
type UploadHandler struct {
	uploader storage.Uploader
}

// NewUploadHandler builds an UploadHandler.
func NewUploadHandler(uploader storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// PresignListingPhoto returns a fresh storage key and a short-lived PUT URL.
func (h *UploadHandler) PresignListingPhoto(c *gin.Context) {
	key, url, err := h.uploader.PresignedPutURL(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create upload url"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
}
