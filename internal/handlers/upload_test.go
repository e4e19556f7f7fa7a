package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swap-service/internal/mocks"
)

func setupUploadRouter(handler *UploadHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/uploads/listing-photo", handler.PresignListingPhoto)
	return r
}

func TestPresignListingPhoto(t *testing.T) {
	uploader := new(mocks.UploaderMock)
	handler := NewUploadHandler(uploader)
	router := setupUploadRouter(handler)

	uploader.On("PresignedPutURL", mock.Anything).
		Return("listing-photos/abc", "https://bucket.example.com/listing-photos/abc?sig=x", nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/uploads/listing-photo", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"key":"listing-photos/abc","url":"https://bucket.example.com/listing-photos/abc?sig=x"}`, rec.Body.String())
	uploader.AssertExpectations(t)
}

func TestPresignListingPhotoError(t *testing.T) {
	uploader := new(mocks.UploaderMock)
	handler := NewUploadHandler(uploader)
	router := setupUploadRouter(handler)

	uploader.On("PresignedPutURL", mock.Anything).Return("", "", assert.AnError).Once()

	req := httptest.NewRequest(http.MethodPost, "/uploads/listing-photo", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
