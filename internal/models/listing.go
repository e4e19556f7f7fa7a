package models

import "time"

// Listing is a fragrance listing. The owner* fields mirror the owner's
// profile at last sync time; OwnerPriority caches the two trust flags as a
// single sortable integer.
type Listing struct {
	ID              string    `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description,omitempty"`
	OwnerUID        string    `db:"owner_uid" json:"ownerUid"`
	OwnerUsername   string    `db:"owner_username" json:"ownerUsername"`
	OwnerIsPremium  bool      `db:"owner_is_premium" json:"ownerIsPremium"`
	OwnerIsVerified bool      `db:"owner_is_id_verified" json:"ownerIsIdVerified"`
	OwnerPriority   int       `db:"owner_priority" json:"ownerPriority"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// OwnerFields is the denormalized projection copied from a profile onto its
// listings.
type OwnerFields struct {
	Username   string
	IsPremium  bool
	IsVerified bool
	Priority   int
}

// OwnerPriority derives the cached priority from the two trust flags.
func OwnerPriority(isPremium, isVerified bool) int {
	switch {
	case isPremium && isVerified:
		return 3
	case isVerified:
		return 2
	case isPremium:
		return 1
	default:
		return 0
	}
}

// OwnerFieldsFor builds the projection for an owner profile. A nil profile
// (owner document absent) yields unset flags and an empty username.
func OwnerFieldsFor(p *Profile) OwnerFields {
	if p == nil {
		return OwnerFields{Priority: OwnerPriority(false, false)}
	}
	return OwnerFields{
		Username:   p.Username,
		IsPremium:  p.IsPremium,
		IsVerified: p.IsIDVerified,
		Priority:   OwnerPriority(p.IsPremium, p.IsIDVerified),
	}
}

// Matches reports whether the listing already carries this projection.
func (f OwnerFields) Matches(l Listing) bool {
	return l.OwnerUsername == f.Username &&
		l.OwnerIsPremium == f.IsPremium &&
		l.OwnerIsVerified == f.IsVerified &&
		l.OwnerPriority == f.Priority
}
