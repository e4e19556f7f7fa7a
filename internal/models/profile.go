package models

import (
	"encoding/json"
	"time"
)

// Profile is the per-user document. UsernameLowercase always holds the
// lowercase form of Username and is the only field queried for availability
// checks. AddressComponents is a pointer because the column is NULL until an
// address with components is saved.
type Profile struct {
	UID               string           `db:"uid" json:"uid"`
	Username          string           `db:"username" json:"username"`
	UsernameLowercase string           `db:"username_lowercase" json:"usernameLowercase"`
	Email             string           `db:"email" json:"email"`
	Country           string           `db:"country" json:"country,omitempty"`
	IsPremium         bool             `db:"is_premium" json:"isPremium"`
	IsIDVerified      bool             `db:"is_id_verified" json:"isIdVerified"`
	UnreadCount       int              `db:"unread_count" json:"unreadCount"`
	SwapCount         int              `db:"swap_count" json:"swapCount"`
	FormattedAddress  string           `db:"formatted_address" json:"formattedAddress,omitempty"`
	AddressComponents *json.RawMessage `db:"address_components" json:"addressComponents,omitempty"`
	CreatedAt         time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updatedAt"`
}
