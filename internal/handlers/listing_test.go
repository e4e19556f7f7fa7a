package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swap-service/internal/events"
	"swap-service/internal/mocks"
	"swap-service/internal/models"
	"swap-service/internal/repositories"
)

func setupListingRouter(handler *ListingHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/listings", handler.CreateListing)
	r.DELETE("/listings/:listing_id", handler.DeleteListing)
	return r
}

func TestCreateListingSuccess(t *testing.T) {
	listings := new(mocks.ListingRepositoryMock)
	publisher := new(mocks.PublisherMock)
	handler := NewListingHandler(listings, new(mocks.ListingIndexMock), publisher)
	router := setupListingRouter(handler)

	listings.On("CreateListing", mock.Anything, mock.MatchedBy(func(l models.Listing) bool {
		return l.Title == "Vintage Mitsouko EDP" && l.OwnerUID == "owner-1" && l.ID != ""
	})).Return(models.Listing{ID: "l1", Title: "Vintage Mitsouko EDP", OwnerUID: "owner-1"}, nil).Once()
	publisher.On("Publish", mock.Anything, events.RoutingKeyListingCreated, models.ListingCreatedEvent{
		ListingID: "l1", OwnerUID: "owner-1",
	}).Return(nil).Once()

	body := bytes.NewBufferString(`{"title":"Vintage Mitsouko EDP","description":"30ml, 1980s batch"}`)
	req := httptest.NewRequest(http.MethodPost, "/listings", body)
	req.Header.Set("X-User-UID", "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.Listing
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "l1", resp.ID)

	listings.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateListingMissingTitle(t *testing.T) {
	listings := new(mocks.ListingRepositoryMock)
	handler := NewListingHandler(listings, new(mocks.ListingIndexMock), new(mocks.PublisherMock))
	router := setupListingRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewBufferString(`{"description":"no title"}`))
	req.Header.Set("X-User-UID", "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	listings.AssertNotCalled(t, "CreateListing", mock.Anything, mock.Anything)
}

// Only the owner may delete a listing; anyone else gets forbidden and the
// row stays put.
func TestDeleteListingNonOwnerForbidden(t *testing.T) {
	listings := new(mocks.ListingRepositoryMock)
	index := new(mocks.ListingIndexMock)
	handler := NewListingHandler(listings, index, new(mocks.PublisherMock))
	router := setupListingRouter(handler)

	listings.On("GetListing", mock.Anything, "l1").
		Return(models.Listing{ID: "l1", OwnerUID: "owner-1"}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/listings/l1", nil)
	req.Header.Set("X-User-UID", "intruder")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	listings.AssertNotCalled(t, "DeleteListing", mock.Anything, mock.Anything)
	index.AssertNotCalled(t, "DeleteListing", mock.Anything, mock.Anything)
}

func TestDeleteListingSuccess(t *testing.T) {
	listings := new(mocks.ListingRepositoryMock)
	index := new(mocks.ListingIndexMock)
	handler := NewListingHandler(listings, index, new(mocks.PublisherMock))
	router := setupListingRouter(handler)

	listings.On("GetListing", mock.Anything, "l1").
		Return(models.Listing{ID: "l1", OwnerUID: "owner-1"}, nil).Once()
	listings.On("DeleteListing", mock.Anything, "l1").Return(nil).Once()
	index.On("DeleteListing", mock.Anything, "l1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/listings/l1", nil)
	req.Header.Set("X-User-UID", "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	listings.AssertExpectations(t)
	index.AssertExpectations(t)
}

func TestDeleteListingNotFound(t *testing.T) {
	listings := new(mocks.ListingRepositoryMock)
	handler := NewListingHandler(listings, new(mocks.ListingIndexMock), new(mocks.PublisherMock))
	router := setupListingRouter(handler)

	listings.On("GetListing", mock.Anything, "missing").
		Return(models.Listing{}, repositories.ErrListingNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/listings/missing", nil)
	req.Header.Set("X-User-UID", "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

// Search de-indexing is best effort: a provider failure must not undo a
// completed delete.
func TestDeleteListingSearchFailureStillSucceeds(t *testing.T) {
	listings := new(mocks.ListingRepositoryMock)
	index := new(mocks.ListingIndexMock)
	handler := NewListingHandler(listings, index, new(mocks.PublisherMock))
	router := setupListingRouter(handler)

	listings.On("GetListing", mock.Anything, "l1").
		Return(models.Listing{ID: "l1", OwnerUID: "owner-1"}, nil).Once()
	listings.On("DeleteListing", mock.Anything, "l1").Return(nil).Once()
	index.On("DeleteListing", mock.Anything, "l1").Return(assert.AnError).Once()

	req := httptest.NewRequest(http.MethodDelete, "/listings/l1", nil)
	req.Header.Set("X-User-UID", "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	index.AssertExpectations(t)
}
