package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swap-service/internal/mailer"
	"swap-service/internal/mocks"
)

func setupEmailRouter(handler *EmailHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/email/contact", handler.SendContact)
	r.POST("/email/swap", handler.SendSwapOffer)
	return r
}

func TestSendContactSuccess(t *testing.T) {
	m := new(mocks.MailerMock)
	handler := NewEmailHandler(m)
	router := setupEmailRouter(handler)

	m.On("SendContact", mock.Anything, mailer.ContactEmail{
		FromName:  "Rose",
		FromEmail: "rose@example.com",
		Subject:   "Broken atomizer",
		Body:      "The sprayer on my order arrived cracked.",
	}).Return(nil).Once()

	body := bytes.NewBufferString(`{"fromName":"Rose","fromEmail":"rose@example.com","subject":"Broken atomizer","body":"The sprayer on my order arrived cracked."}`)
	req := httptest.NewRequest(http.MethodPost, "/email/contact", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"email sent"}`, rec.Body.String())
	m.AssertExpectations(t)
}

func TestSendContactMissingFields(t *testing.T) {
	m := new(mocks.MailerMock)
	handler := NewEmailHandler(m)
	router := setupEmailRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/email/contact", bytes.NewBufferString(`{"fromName":"Rose"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	m.AssertNotCalled(t, "SendContact", mock.Anything, mock.Anything)
}

// Provider failures surface as server errors, distinct from the 400s the
// field validation returns.
func TestSendContactProviderError(t *testing.T) {
	m := new(mocks.MailerMock)
	handler := NewEmailHandler(m)
	router := setupEmailRouter(handler)

	m.On("SendContact", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	body := bytes.NewBufferString(`{"fromEmail":"rose@example.com","body":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/email/contact", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	m.AssertExpectations(t)
}

func TestSendSwapOfferSuccess(t *testing.T) {
	m := new(mocks.MailerMock)
	handler := NewEmailHandler(m)
	router := setupEmailRouter(handler)

	m.On("SendSwapOffer", mock.Anything, mailer.SwapEmail{
		ToEmail:      "owner@example.com",
		ToUsername:   "vetiver",
		FromUsername: "rose",
		ListingTitle: "Vintage Mitsouko EDP",
		OfferedScent: "Timbuktu 100ml",
	}).Return(nil).Once()

	body := bytes.NewBufferString(`{"toEmail":"owner@example.com","toUsername":"vetiver","fromUsername":"rose","listingTitle":"Vintage Mitsouko EDP","offeredScent":"Timbuktu 100ml"}`)
	req := httptest.NewRequest(http.MethodPost, "/email/swap", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	m.AssertExpectations(t)
}

func TestSendSwapOfferMissingFields(t *testing.T) {
	m := new(mocks.MailerMock)
	handler := NewEmailHandler(m)
	router := setupEmailRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/email/swap", bytes.NewBufferString(`{"toEmail":"owner@example.com"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	m.AssertNotCalled(t, "SendSwapOffer", mock.Anything, mock.Anything)
}
