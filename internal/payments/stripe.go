package payments

import (
	"context"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// CheckoutRequest carries everything needed to open a payment session.
type CheckoutRequest struct {
	UserUID    string
	Email      string
	Currency   string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the provider response surfaced to callers.
type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutClient creates hosted payment sessions.
type CheckoutClient interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
}

// PriceTable maps a currency code to the configured subscription price id.
type PriceTable struct {
	USD string
	EUR string
	GBP string
}

// PriceFor selects the price id for a currency, defaulting to USD.
func (p PriceTable) PriceFor(currency string) string {
	switch strings.ToLower(currency) {
	case "eur":
		return p.EUR
	case "gbp":
		return p.GBP
	default:
		return p.USD
	}
}

// StripeClient is the Stripe-backed CheckoutClient.
type StripeClient struct {
	api    *client.API
	prices PriceTable
}

// NewStripeClient constructs a StripeClient with its own API handle rather
// than the SDK's package-level key.
func NewStripeClient(apiKey string, prices PriceTable) *StripeClient {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeClient{api: api, prices: prices}
}

// CreateSession opens a subscription checkout session. No idempotency key and
// no webhook reconciliation: an abandoned session leaves no record here.
func (s *StripeClient) CreateSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.UserUID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.prices.PriceFor(req.Currency)),
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return CheckoutSession{}, err
	}
	return CheckoutSession{ID: session.ID, URL: session.URL}, nil
}
