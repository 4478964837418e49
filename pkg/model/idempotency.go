package model

import "time"

// IdempotencyRecord maps a caller-supplied key to the booking it produced.
// First writer wins: a second Record for the same live key is a no-op.
type IdempotencyRecord struct {
	Key       string    `bson:"_id" json:"key"`
	BookingID string    `bson:"booking_id" json:"booking_id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
