package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"swap-service/internal/models"
)

var ErrListingNotFound = errors.New("listing not found")

// ListingRepository abstracts listing persistence.
type ListingRepository interface {
	CreateListing(ctx context.Context, listing models.Listing) (models.Listing, error)
	GetListing(ctx context.Context, id string) (models.Listing, error)
	DeleteListing(ctx context.Context, id string) error
	UpdateOwnerFields(ctx context.Context, id string, fields models.OwnerFields) error
	ListListings(ctx context.Context, limit int) ([]models.Listing, error)
}

// ListingRepo is a sqlx implementation of ListingRepository.
type ListingRepo struct {
	db *sqlx.DB
}

// NewListingRepo constructs a ListingRepo.
func NewListingRepo(db *sqlx.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

// CreateListing inserts a new listing document.
func (r *ListingRepo) CreateListing(ctx context.Context, listing models.Listing) (models.Listing, error) {
	var created models.Listing
	query := `INSERT INTO listings (id, title, description, owner_uid)
        VALUES ($1, $2, $3, $4)
        RETURNING id, title, description, owner_uid, owner_username, owner_is_premium,
            owner_is_id_verified, owner_priority, created_at, updated_at`
	err := r.db.GetContext(ctx, &created, query, listing.ID, listing.Title, listing.Description, listing.OwnerUID)
	return created, err
}

// GetListing fetches a listing by id.
func (r *ListingRepo) GetListing(ctx context.Context, id string) (models.Listing, error) {
	var listing models.Listing
	err := r.db.GetContext(ctx, &listing, `SELECT id, title, description, owner_uid, owner_username,
        owner_is_premium, owner_is_id_verified, owner_priority, created_at, updated_at
        FROM listings WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Listing{}, ErrListingNotFound
	}
	return listing, err
}

// DeleteListing removes the single listing document. Listings have no
// dependent child rows, so there is no cascade here.
func (r *ListingRepo) DeleteListing(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrListingNotFound
	}
	return nil
}

// UpdateOwnerFields writes the denormalized owner projection plus updated_at.
func (r *ListingRepo) UpdateOwnerFields(ctx context.Context, id string, fields models.OwnerFields) error {
	res, err := r.db.ExecContext(ctx, `UPDATE listings SET owner_username=$2, owner_is_premium=$3,
        owner_is_id_verified=$4, owner_priority=$5, updated_at=NOW() WHERE id=$1`,
		id, fields.Username, fields.IsPremium, fields.IsVerified, fields.Priority)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrListingNotFound
	}
	return nil
}

// ListListings returns the most recent listings for the admin view.
func (r *ListingRepo) ListListings(ctx context.Context, limit int) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.SelectContext(ctx, &listings, `SELECT id, title, description, owner_uid, owner_username,
        owner_is_premium, owner_is_id_verified, owner_priority, created_at, updated_at
        FROM listings ORDER BY created_at DESC LIMIT $1`, limit)
	return listings, err
}
