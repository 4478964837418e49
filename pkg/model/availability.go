package model

import "time"

// SeedAvailabilityRequest creates availability records for every date in the
// inclusive range that does not have one yet. Units defaults to the room
// capacity when omitted.
type SeedAvailabilityRequest struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
	Units     int       `json:"units" validate:"omitempty,min=0"`
}
