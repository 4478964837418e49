package model

import (
	"time"
)

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking covers StartDate through EndDate inclusive: a booking for
// 01-01..01-03 consumes Quantity units of availability on three dates.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	RoomID    string    `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	StartDate time.Time `json:"start_date" bson:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" bson:"end_date" validate:"required"`
	Quantity  int       `json:"quantity" bson:"quantity" validate:"required,min=1"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=confirmed cancelled"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ReservationRequest is the engine's single-operation input. IdempotencyKey
// is opaque caller-supplied bytes; empty disables replay protection.
type ReservationRequest struct {
	RoomID         string    `json:"room_id" validate:"required,mongodb"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required"`
	Quantity       int       `json:"quantity" validate:"required,min=1"`
	UserID         string    `json:"-" validate:"required,mongodb"`
	IdempotencyKey string    `json:"-" validate:"omitempty,max=256"`
}

// ReservationResult wraps the booking with a replay marker so transport can
// distinguish a fresh reservation (201) from an idempotent replay (200).
type ReservationResult struct {
	Booking  *Booking `json:"booking"`
	Replayed bool     `json:"idempotent,omitempty"`
}
