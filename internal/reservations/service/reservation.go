package service

import (
	"context"
	"errors"
	reservationserrors "roomly/internal/reservations/errors"
	"roomly/internal/reservations/repository"
	"roomly/internal/reservations/validator"
	"roomly/pkg/config"
	"roomly/pkg/dateutil"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/events"
	"roomly/pkg/model"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// RoomCatalog is the engine's view of the rooms service: the room exists and
// has a capacity, nothing more.
type RoomCatalog interface {
	GetByID(id string) (*model.Room, error)
}

// EventPublisher emits booking lifecycle events after commit. Publishing is
// best-effort; a publish failure never unwinds a committed booking.
type EventPublisher interface {
	Publish(ctx context.Context, msg events.Message) error
}

type ReservationService interface {
	Reserve(ctx context.Context, req *model.ReservationRequest) (*model.ReservationResult, error)
	Cancel(ctx context.Context, bookingID string, userID string) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error)
}

type reservationService struct {
	repo      repository.BookingRepository
	ledger    repository.AvailabilityRepository
	locks     repository.ResourceLockRepository
	idem      repository.IdempotencyRepository
	validator *validator.ReservationValidator
	catalog   RoomCatalog
	publisher EventPublisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.BookingRepository,
	ledger repository.AvailabilityRepository,
	locks repository.ResourceLockRepository,
	idem repository.IdempotencyRepository,
	validator *validator.ReservationValidator,
	catalog RoomCatalog,
	publisher EventPublisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		ledger:    ledger,
		locks:     locks,
		idem:      idem,
		validator: validator,
		catalog:   catalog,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Reserve is the single entry point for admission control. Per room the lock
// serializes the decrement phase; across rooms attempts run fully in
// parallel. Every side effect between lock acquire and release happens
// inside one storage transaction, so a failed attempt leaves no residue.
func (s *reservationService) Reserve(ctx context.Context, req *model.ReservationRequest) (*model.ReservationResult, error) {
	if req.IdempotencyKey != "" {
		result, err := s.replay(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if result != nil {
			s.cfg.Log.Info("Reservation replayed from idempotency key",
				"booking_id", result.Booking.ID,
				"room_id", req.RoomID,
			)
			return result, nil
		}
	}

	// Everything read-only happens before the lock. The room lookup is a
	// network call to the rooms service, and its latency must not count
	// against the lock TTL.
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "room_id", req.RoomID, "error", err)
		return nil, apperrors.Validation("Invalid reservation request", map[string]any{"error": err.Error()})
	}

	room, err := s.catalog.GetByID(req.RoomID)
	if err != nil {
		return nil, apperrors.Internal("Failed to look up room", err)
	}
	if room == nil {
		return nil, apperrors.NotFoundWithID("Room", req.RoomID)
	}

	days, err := dateutil.ExpandRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	token, err := s.locks.Acquire(ctx, req.RoomID, s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrLockBusy) {
			return nil, apperrors.ResourceBusy("Room is being reserved by another request. Please retry.")
		}
		return nil, apperrors.Internal("Failed to acquire reservation lock", err)
	}
	defer s.releaseLock(ctx, req.RoomID, token)

	booking := &model.Booking{
		UserID:    req.UserID,
		RoomID:    req.RoomID,
		StartDate: dateutil.Day(req.StartDate),
		EndDate:   dateutil.Day(req.EndDate),
		Quantity:  req.Quantity,
		Status:    model.BookingStatusConfirmed,
	}

	// All-or-nothing across the whole range: the first date that cannot
	// cover the quantity aborts the transaction, which rolls back every
	// decrement already applied in this attempt.
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		for _, day := range days {
			if err := s.ledger.ConditionalDecrement(sessCtx, req.RoomID, day, req.Quantity); err != nil {
				return err
			}
		}
		return s.repo.Create(sessCtx, booking)
	})
	if err != nil {
		var insufficient *reservationserrors.InsufficientAvailabilityError
		if errors.As(err, &insufficient) {
			s.cfg.Log.Info("Reservation rejected, insufficient availability",
				"room_id", req.RoomID,
				"date", dateutil.Format(insufficient.Date),
				"quantity", req.Quantity,
			)
			return nil, apperrors.InsufficientAvailability(dateutil.Format(insufficient.Date))
		}
		s.cfg.Log.Error("Reservation transaction failed", "room_id", req.RoomID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	// Best-effort after commit: a failed Record means a retry with the same
	// key books again instead of replaying, but the ledger stays correct.
	if req.IdempotencyKey != "" {
		if err := s.idem.Record(ctx, req.IdempotencyKey, booking.ID, s.cfg.IdempotencyTTL); err != nil {
			s.cfg.Log.Warn("Failed to record idempotency key",
				"booking_id", booking.ID,
				"error", err,
			)
		}
	}

	s.publishEvent(ctx, events.TypeBookingConfirmed, booking)

	s.cfg.Log.Info("Booking created successfully",
		"booking_id", booking.ID,
		"user_id", booking.UserID,
		"room_id", booking.RoomID,
		"start_date", dateutil.Format(booking.StartDate),
		"end_date", dateutil.Format(booking.EndDate),
		"quantity", booking.Quantity,
	)
	return &model.ReservationResult{Booking: booking}, nil
}

// replay returns the prior result for a live idempotency key, or nil on a
// miss. A hit is terminal: no lock, no decrement, no new booking.
func (s *reservationService) replay(ctx context.Context, key string) (*model.ReservationResult, error) {
	bookingID, err := s.idem.Lookup(ctx, key)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrIdempotencyMiss) {
			return nil, nil
		}
		return nil, apperrors.Internal("Failed to check idempotency key", err)
	}

	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load booking for idempotency replay", err)
	}

	return &model.ReservationResult{Booking: booking, Replayed: true}, nil
}

// releaseLock always runs, success or failure path. It must not mask the
// operation's error and must survive a cancelled request context.
func (s *reservationService) releaseLock(ctx context.Context, roomID, token string) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.WriteTimeout)
	defer cancel()

	if err := s.locks.Release(releaseCtx, roomID, token); err != nil {
		if errors.Is(err, reservationserrors.ErrLockNotOwner) {
			// TTL expired mid-attempt and another attempt took the lock;
			// deleting it now would destroy the new holder's lock.
			s.cfg.Log.Warn("Reservation lock expired before release", "room_id", roomID)
			return
		}
		s.cfg.Log.Warn("Failed to release reservation lock", "room_id", roomID, "error", err)
	}
}

func (s *reservationService) Cancel(ctx context.Context, bookingID string, userID string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		// Do not reveal other users' bookings.
		return nil, apperrors.NotFoundWithID("Booking", bookingID)
	}
	if booking.Status == model.BookingStatusCancelled {
		return nil, apperrors.Conflict("Booking is already cancelled")
	}

	days, err := dateutil.ExpandRange(booking.StartDate, booking.EndDate)
	if err != nil {
		return nil, apperrors.Internal("Stored booking has an invalid date range", err)
	}

	// The increment reuses the ledger primitive, so the capacity invariant
	// holds through cancellation exactly as through reservation.
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.UpdateStatus(sessCtx, bookingID, model.BookingStatusCancelled); err != nil {
			return err
		}
		for _, day := range days {
			if err := s.ledger.Increment(sessCtx, booking.RoomID, day, booking.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Cancellation transaction failed", "booking_id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	booking.Status = model.BookingStatusCancelled
	s.publishEvent(ctx, events.TypeBookingCancelled, booking)

	s.cfg.Log.Info("Booking cancelled successfully",
		"booking_id", bookingID,
		"room_id", booking.RoomID,
	)
	return booking, nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return s.findBooking(ctx, id)
}

func (s *reservationService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *reservationService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *reservationService) publishEvent(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	msg, err := events.NewBookingMessage(eventType, "reservations", events.BookingEvent{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		RoomID:    booking.RoomID,
		StartDate: booking.StartDate,
		EndDate:   booking.EndDate,
		Quantity:  booking.Quantity,
		Status:    booking.Status,
		Occurred:  time.Now().UTC(),
	})
	if err != nil {
		s.cfg.Log.Error("Failed to build booking event", "booking_id", booking.ID, "error", err)
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.publisher.Publish(publishCtx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"booking_id", booking.ID,
			"event_type", eventType,
			"error", err,
		)
	}
}
