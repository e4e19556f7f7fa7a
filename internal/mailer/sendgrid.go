package mailer

import (
	"context"
	"fmt"

	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ContactEmail is a message from a visitor to the support inbox.
type ContactEmail struct {
	FromName  string
	FromEmail string
	Subject   string
	Body      string
}

// SwapEmail notifies a listing owner about a swap offer.
type SwapEmail struct {
	ToEmail      string
	ToUsername   string
	FromUsername string
	ListingTitle string
	OfferedScent string
}

// Mailer dispatches transactional email through the provider.
type Mailer interface {
	SendContact(ctx context.Context, email ContactEmail) error
	SendSwapOffer(ctx context.Context, email SwapEmail) error
}

// SendGridMailer sends dynamic-template mail via SendGrid.
type SendGridMailer struct {
	client            *sendgrid.Client
	fromName          string
	fromEmail         string
	contactInbox      string
	contactTemplateID string
	swapTemplateID    string
}

// Config carries the provider settings for the mailer.
type Config struct {
	APIKey            string
	FromName          string
	FromEmail         string
	ContactInbox      string
	ContactTemplateID string
	SwapTemplateID    string
}

// NewSendGridMailer constructs a SendGridMailer.
func NewSendGridMailer(cfg Config) *SendGridMailer {
	return &SendGridMailer{
		client:            sendgrid.NewSendClient(cfg.APIKey),
		fromName:          cfg.FromName,
		fromEmail:         cfg.FromEmail,
		contactInbox:      cfg.ContactInbox,
		contactTemplateID: cfg.ContactTemplateID,
		swapTemplateID:    cfg.SwapTemplateID,
	}
}

// SendContact forwards a contact-form message to the support inbox.
func (m *SendGridMailer) SendContact(ctx context.Context, email ContactEmail) error {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(m.fromName, m.fromEmail))
	message.SetTemplateID(m.contactTemplateID)

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", m.contactInbox))
	p.SetDynamicTemplateData("fromName", email.FromName)
	p.SetDynamicTemplateData("fromEmail", email.FromEmail)
	p.SetDynamicTemplateData("subject", email.Subject)
	p.SetDynamicTemplateData("body", email.Body)
	message.AddPersonalizations(p)

	return m.send(ctx, message)
}

// SendSwapOffer notifies a listing owner that someone proposed a swap.
func (m *SendGridMailer) SendSwapOffer(ctx context.Context, email SwapEmail) error {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(m.fromName, m.fromEmail))
	message.SetTemplateID(m.swapTemplateID)

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(email.ToUsername, email.ToEmail))
	p.SetDynamicTemplateData("toUsername", email.ToUsername)
	p.SetDynamicTemplateData("fromUsername", email.FromUsername)
	p.SetDynamicTemplateData("listingTitle", email.ListingTitle)
	p.SetDynamicTemplateData("offeredScent", email.OfferedScent)
	message.AddPersonalizations(p)

	return m.send(ctx, message)
}

func (m *SendGridMailer) send(ctx context.Context, message *mail.SGMailV3) error {
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
