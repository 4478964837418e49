package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrLockBusy means another attempt holds the room's reservation lock.
	// Surfaced immediately; the engine never waits for a lock.
	ErrLockBusy = errors.New("resource lock is held by another attempt")

	// ErrLockNotOwner means a release found no lock with the caller's token:
	// the TTL expired and someone else may hold the room now.
	ErrLockNotOwner = errors.New("resource lock is not owned by this attempt")

	ErrInsufficientAvailability = errors.New("insufficient availability")

	ErrIdempotencyMiss = errors.New("idempotency key not found")
)

// InsufficientAvailabilityError reports the first date in the requested
// range that could not cover the quantity. The whole attempt rolls back.
type InsufficientAvailabilityError struct {
	Date time.Time
}

func (e *InsufficientAvailabilityError) Error() string {
	return fmt.Sprintf("insufficient availability for date %s", e.Date.Format("2006-01-02"))
}

func (e *InsufficientAvailabilityError) Unwrap() error {
	return ErrInsufficientAvailability
}
