package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"swap-service/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository abstracts profile persistence.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, uid, username, email string) (models.Profile, error)
	GetProfile(ctx context.Context, uid string) (models.Profile, error)
	UsernameTaken(ctx context.Context, usernameLowercase string) (bool, error)
	SaveAddress(ctx context.Context, uid, formattedAddress string, components json.RawMessage) (models.Profile, error)
	ListProfiles(ctx context.Context, limit int) ([]models.Profile, error)
}

// ProfileRepo is a sqlx implementation of ProfileRepository.
type ProfileRepo struct {
	db *sqlx.DB
}

// NewProfileRepo constructs a ProfileRepo.
func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// CreateProfile writes the fixed-shape initial profile document keyed by uid.
// This is an overwrite, not a create-if-absent: calling it again for the same
// uid resets trust flags and counters back to defaults.
func (r *ProfileRepo) CreateProfile(ctx context.Context, uid, username, email string) (models.Profile, error) {
	var profile models.Profile
	query := `INSERT INTO profiles (uid, username, username_lowercase, email)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (uid) DO UPDATE SET
            username = EXCLUDED.username,
            username_lowercase = EXCLUDED.username_lowercase,
            email = EXCLUDED.email,
            country = '',
            is_premium = FALSE,
            is_id_verified = FALSE,
            unread_count = 0,
            swap_count = 0,
            formatted_address = '',
            address_components = NULL,
            updated_at = NOW()
        RETURNING uid, username, username_lowercase, email, country, is_premium,
            is_id_verified, unread_count, swap_count, formatted_address,
            address_components, created_at, updated_at`
	err := r.db.GetContext(ctx, &profile, query, uid, username, strings.ToLower(username), email)
	return profile, err
}

// GetProfile fetches a profile by uid.
func (r *ProfileRepo) GetProfile(ctx context.Context, uid string) (models.Profile, error) {
	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT uid, username, username_lowercase, email, country,
        is_premium, is_id_verified, unread_count, swap_count, formatted_address,
        address_components, created_at, updated_at
        FROM profiles WHERE uid=$1`, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	return profile, err
}

// UsernameTaken probes the lowercase-name index for at most one match.
func (r *ProfileRepo) UsernameTaken(ctx context.Context, usernameLowercase string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE username_lowercase=$1 LIMIT 1)`, usernameLowercase)
	return exists, err
}

// SaveAddress stores the formatted address and optional structured components.
func (r *ProfileRepo) SaveAddress(ctx context.Context, uid, formattedAddress string, components json.RawMessage) (models.Profile, error) {
	var profile models.Profile
	query := `UPDATE profiles SET formatted_address=$2, address_components=$3, updated_at=NOW()
        WHERE uid=$1
        RETURNING uid, username, username_lowercase, email, country, is_premium,
            is_id_verified, unread_count, swap_count, formatted_address,
            address_components, created_at, updated_at`
	err := r.db.GetContext(ctx, &profile, query, uid, formattedAddress, []byte(components))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	return profile, err
}

// ListProfiles returns the most recent profiles for the admin view.
func (r *ProfileRepo) ListProfiles(ctx context.Context, limit int) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.SelectContext(ctx, &profiles, `SELECT uid, username, username_lowercase, email, country,
        is_premium, is_id_verified, unread_count, swap_count, formatted_address,
        address_components, created_at, updated_at
        FROM profiles ORDER BY created_at DESC LIMIT $1`, limit)
	return profiles, err
}
