package search

import (
	"context"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"

	"swap-service/internal/models"
)

// ListingIndex pushes listing documents into the full-text search provider.
type ListingIndex interface {
	SaveListing(ctx context.Context, listing models.Listing) error
	DeleteListing(ctx context.Context, listingID string) error
}

// listingRecord is the search-facing projection of a listing.
type listingRecord struct {
	ObjectID        string `json:"objectID"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	OwnerUID        string `json:"ownerUid"`
	OwnerUsername   string `json:"ownerUsername"`
	OwnerIsPremium  bool   `json:"ownerIsPremium"`
	OwnerIsVerified bool   `json:"ownerIsIdVerified"`
	OwnerPriority   int    `json:"ownerPriority"`
}

// AlgoliaIndex is the Algolia-backed ListingIndex.
type AlgoliaIndex struct {
	index *search.Index
}

// NewAlgoliaIndex constructs the index client.
func NewAlgoliaIndex(appID, apiKey, indexName string) *AlgoliaIndex {
	client := search.NewClient(appID, apiKey)
	return &AlgoliaIndex{index: client.InitIndex(indexName)}
}

// SaveListing creates or replaces the listing's search record.
func (a *AlgoliaIndex) SaveListing(ctx context.Context, listing models.Listing) error {
	record := listingRecord{
		ObjectID:        listing.ID,
		Title:           listing.Title,
		Description:     listing.Description,
		OwnerUID:        listing.OwnerUID,
		OwnerUsername:   listing.OwnerUsername,
		OwnerIsPremium:  listing.OwnerIsPremium,
		OwnerIsVerified: listing.OwnerIsVerified,
		OwnerPriority:   listing.OwnerPriority,
	}
	_, err := a.index.SaveObject(record, ctx)
	return err
}

// DeleteListing removes the listing's search record.
func (a *AlgoliaIndex) DeleteListing(ctx context.Context, listingID string) error {
	_, err := a.index.DeleteObject(listingID, ctx)
	return err
}

// NoopIndex is used when search is not configured.
type NoopIndex struct{}

func (NoopIndex) SaveListing(ctx context.Context, listing models.Listing) error { return nil }
func (NoopIndex) DeleteListing(ctx context.Context, listingID string) error     { return nil }
