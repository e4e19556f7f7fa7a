package models

import "time"

// SwapRequest is the parent document of a swap negotiation. Its messages and
// presence rows are child documents removed together by the batched subtree
// delete.
type SwapRequest struct {
	ID           string    `db:"id" json:"id"`
	RequesterUID string    `db:"requester_uid" json:"requesterUid"`
	ResponderUID string    `db:"responder_uid" json:"responderUid"`
	ListingID    string    `db:"listing_id" json:"listingId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// SwapMessage is one message inside a swap conversation. CreatedAt establishes
// delivery order.
type SwapMessage struct {
	ID        int64     `db:"id" json:"id"`
	SwapID    string    `db:"swap_id" json:"swapId"`
	SenderUID string    `db:"sender_uid" json:"senderUid"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// SwapPresence records the last time a user checked into a swap conversation.
type SwapPresence struct {
	ID         int64     `db:"id" json:"id"`
	SwapID     string    `db:"swap_id" json:"swapId"`
	UserUID    string    `db:"user_uid" json:"userUid"`
	LastSeenAt time.Time `db:"last_seen_at" json:"lastSeenAt"`
}

// SwapEvent is broadcast through websockets to swap conversation rooms.
type SwapEvent struct {
	Type      string       `json:"type"`
	Message   *SwapMessage `json:"message,omitempty"`
	UserUID   string       `json:"userUid,omitempty"`
	MessageID int64        `json:"messageId,omitempty"`
}

// ListingCreatedEvent is published when a listing document is created and
// consumed by the owner-denormalization trigger.
type ListingCreatedEvent struct {
	ListingID string `json:"listingId"`
	OwnerUID  string `json:"ownerUid"`
}

// UserRegisteredEvent is published when a new account is registered and
// consumed by the profile-provisioning trigger.
type UserRegisteredEvent struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
