package model

import "time"

// ResourceLock is the per-room mutual-exclusion record. The _id is the room
// ID, so at most one lock document exists per room at a time. Token proves
// ownership on release: a holder whose TTL expired cannot delete a lock that
// a later attempt re-acquired.
type ResourceLock struct {
	RoomID    string    `bson:"_id" json:"room_id"`
	Token     string    `bson:"token" json:"token"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
