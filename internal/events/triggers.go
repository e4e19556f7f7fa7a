package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"swap-service/internal/models"
	"swap-service/internal/observability"
	"swap-service/internal/repositories"
	"swap-service/internal/search"
)

const (
	// RoutingKeyListingCreated fires the owner-denormalization trigger.
	RoutingKeyListingCreated = "listing.created"
	// RoutingKeyUserRegistered fires the profile-provisioning trigger.
	RoutingKeyUserRegistered = "user.registered"
)

// RoutingKeys lists every event the trigger consumer subscribes to.
var RoutingKeys = []string{RoutingKeyListingCreated, RoutingKeyUserRegistered}

// Triggers reacts to document-lifecycle events.
type Triggers struct {
	profiles repositories.ProfileRepository
	listings repositories.ListingRepository
	index    search.ListingIndex
}

// NewTriggers builds the trigger dispatcher.
func NewTriggers(profiles repositories.ProfileRepository, listings repositories.ListingRepository, index search.ListingIndex) *Triggers {
	return &Triggers{profiles: profiles, listings: listings, index: index}
}

// Dispatch routes a delivery to its trigger handler and records the outcome.
// Unknown routing keys are acknowledged and dropped without being counted.
func (t *Triggers) Dispatch(ctx context.Context, routingKey string, body []byte) error {
	switch routingKey {
	case RoutingKeyListingCreated, RoutingKeyUserRegistered:
	default:
		log.Printf("ignoring event routing_key=%s", routingKey)
		return nil
	}

	err := t.handle(ctx, routingKey, body)
	observability.IncTriggerEvent(routingKey, err)
	return err
}

func (t *Triggers) handle(ctx context.Context, routingKey string, body []byte) error {
	switch routingKey {
	case RoutingKeyListingCreated:
		var event models.ListingCreatedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("decode %s: %w", routingKey, err)
		}
		return t.HandleListingCreated(ctx, event)
	default:
		var event models.UserRegisteredEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("decode %s: %w", routingKey, err)
		}
		return t.HandleUserRegistered(ctx, event)
	}
}

// HandleListingCreated copies the owner's trust projection onto the listing.
// An absent owner profile counts as unset flags. When the listing already
// carries the projection no write happens, so re-delivery of the same event
// cannot loop on its own update notification.
func (t *Triggers) HandleListingCreated(ctx context.Context, event models.ListingCreatedEvent) error {
	listing, err := t.listings.GetListing(ctx, event.ListingID)
	if err != nil {
		if errors.Is(err, repositories.ErrListingNotFound) {
			log.Printf("listing %s gone before denormalization", event.ListingID)
			return nil
		}
		return fmt.Errorf("get listing: %w", err)
	}

	var owner *models.Profile
	profile, err := t.profiles.GetProfile(ctx, listing.OwnerUID)
	if err == nil {
		owner = &profile
	} else if !errors.Is(err, repositories.ErrProfileNotFound) {
		return fmt.Errorf("get owner profile: %w", err)
	}

	fields := models.OwnerFieldsFor(owner)
	if fields.Matches(listing) {
		return nil
	}

	if err := t.listings.UpdateOwnerFields(ctx, listing.ID, fields); err != nil {
		return fmt.Errorf("update owner fields: %w", err)
	}

	listing.OwnerUsername = fields.Username
	listing.OwnerIsPremium = fields.IsPremium
	listing.OwnerIsVerified = fields.IsVerified
	listing.OwnerPriority = fields.Priority
	if err := t.index.SaveListing(ctx, listing); err != nil {
		// Search is best-effort; the document write already succeeded.
		log.Printf("search index update failed for listing %s: %v", listing.ID, err)
	}
	return nil
}

// HandleUserRegistered provisions the default profile document for signups
// arriving through the external auth flow.
func (t *Triggers) HandleUserRegistered(ctx context.Context, event models.UserRegisteredEvent) error {
	if event.UID == "" || event.Username == "" || event.Email == "" {
		log.Printf("dropping malformed user.registered event uid=%q", event.UID)
		return nil
	}
	if _, err := t.profiles.CreateProfile(ctx, event.UID, event.Username, event.Email); err != nil {
		return fmt.Errorf("provision profile: %w", err)
	}
	return nil
}
