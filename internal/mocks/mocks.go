package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"swap-service/internal/mailer"
	"swap-service/internal/models"
	"swap-service/internal/payments"
)

type ProfileRepositoryMock struct {
	mock.Mock
}

func (m *ProfileRepositoryMock) CreateProfile(ctx context.Context, uid, username, email string) (models.Profile, error) {
	args := m.Called(ctx, uid, username, email)
	var profile models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(models.Profile)
	}
	return profile, args.Error(1)
}

func (m *ProfileRepositoryMock) GetProfile(ctx context.Context, uid string) (models.Profile, error) {
	args := m.Called(ctx, uid)
	var profile models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(models.Profile)
	}
	return profile, args.Error(1)
}

func (m *ProfileRepositoryMock) UsernameTaken(ctx context.Context, usernameLowercase string) (bool, error) {
	args := m.Called(ctx, usernameLowercase)
	return args.Bool(0), args.Error(1)
}

func (m *ProfileRepositoryMock) SaveAddress(ctx context.Context, uid, formattedAddress string, components json.RawMessage) (models.Profile, error) {
	args := m.Called(ctx, uid, formattedAddress, components)
	var profile models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(models.Profile)
	}
	return profile, args.Error(1)
}

func (m *ProfileRepositoryMock) ListProfiles(ctx context.Context, limit int) ([]models.Profile, error) {
	args := m.Called(ctx, limit)
	var profiles []models.Profile
	if val := args.Get(0); val != nil {
		profiles = val.([]models.Profile)
	}
	return profiles, args.Error(1)
}

type ListingRepositoryMock struct {
	mock.Mock
}

func (m *ListingRepositoryMock) CreateListing(ctx context.Context, listing models.Listing) (models.Listing, error) {
	args := m.Called(ctx, listing)
	var created models.Listing
	if val := args.Get(0); val != nil {
		created = val.(models.Listing)
	}
	return created, args.Error(1)
}

func (m *ListingRepositoryMock) GetListing(ctx context.Context, id string) (models.Listing, error) {
	args := m.Called(ctx, id)
	var listing models.Listing
	if val := args.Get(0); val != nil {
		listing = val.(models.Listing)
	}
	return listing, args.Error(1)
}

func (m *ListingRepositoryMock) DeleteListing(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ListingRepositoryMock) UpdateOwnerFields(ctx context.Context, id string, fields models.OwnerFields) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *ListingRepositoryMock) ListListings(ctx context.Context, limit int) ([]models.Listing, error) {
	args := m.Called(ctx, limit)
	var listings []models.Listing
	if val := args.Get(0); val != nil {
		listings = val.([]models.Listing)
	}
	return listings, args.Error(1)
}

type SwapRepositoryMock struct {
	mock.Mock
}

func (m *SwapRepositoryMock) GetSwapRequest(ctx context.Context, id string) (models.SwapRequest, error) {
	args := m.Called(ctx, id)
	var swap models.SwapRequest
	if val := args.Get(0); val != nil {
		swap = val.(models.SwapRequest)
	}
	return swap, args.Error(1)
}

func (m *SwapRepositoryMock) CreateSwapMessage(ctx context.Context, swapID, senderUID, body string) (models.SwapMessage, error) {
	args := m.Called(ctx, swapID, senderUID, body)
	var msg models.SwapMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.SwapMessage)
	}
	return msg, args.Error(1)
}

func (m *SwapRepositoryMock) ListSwapMessages(ctx context.Context, limit int) ([]models.SwapMessage, error) {
	args := m.Called(ctx, limit)
	var msgs []models.SwapMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.SwapMessage)
	}
	return msgs, args.Error(1)
}

func (m *SwapRepositoryMock) TouchPresence(ctx context.Context, swapID, userUID string) error {
	args := m.Called(ctx, swapID, userUID)
	return args.Error(0)
}

func (m *SwapRepositoryMock) DeleteSwapRequestTree(ctx context.Context, swapID string) error {
	args := m.Called(ctx, swapID)
	return args.Error(0)
}

type ListingIndexMock struct {
	mock.Mock
}

func (m *ListingIndexMock) SaveListing(ctx context.Context, listing models.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *ListingIndexMock) DeleteListing(ctx context.Context, listingID string) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

type CheckoutClientMock struct {
	mock.Mock
}

func (m *CheckoutClientMock) CreateSession(ctx context.Context, req payments.CheckoutRequest) (payments.CheckoutSession, error) {
	args := m.Called(ctx, req)
	var session payments.CheckoutSession
	if val := args.Get(0); val != nil {
		session = val.(payments.CheckoutSession)
	}
	return session, args.Error(1)
}

type MailerMock struct {
	mock.Mock
}

func (m *MailerMock) SendContact(ctx context.Context, email mailer.ContactEmail) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MailerMock) SendSwapOffer(ctx context.Context, email mailer.SwapEmail) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type UploaderMock struct {
	mock.Mock
}

func (m *UploaderMock) PresignedPutURL(ctx context.Context) (string, string, error) {
	args := m.Called(ctx)
	return args.String(0), args.String(1), args.Error(2)
}

type PresenceStoreMock struct {
	mock.Mock
}

func (m *PresenceStoreMock) Heartbeat(ctx context.Context, swapID, userUID string) error {
	args := m.Called(ctx, swapID, userUID)
	return args.Error(0)
}

func (m *PresenceStoreMock) OnlineParticipants(ctx context.Context, swapID string) ([]string, error) {
	args := m.Called(ctx, swapID)
	var uids []string
	if val := args.Get(0); val != nil {
		uids = val.([]string)
	}
	return uids, args.Error(1)
}

func (m *PresenceStoreMock) ClearSwap(ctx context.Context, swapID string) error {
	args := m.Called(ctx, swapID)
	return args.Error(0)
}

type TokenVerifierMock struct {
	mock.Mock
}

func (m *TokenVerifierMock) VerifyToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
