package service

import (
	"context"
	"errors"
	roomserrors "roomly/internal/rooms/errors"
	"roomly/internal/rooms/repository"
	"roomly/internal/rooms/validator"
	"roomly/pkg/config"
	"roomly/pkg/dateutil"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
	"sync"
	"time"
)

type RoomService interface {
	Create(ctx context.Context, room *model.Room) (*model.Room, error)
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error)
	Search(ctx context.Context, start, end time.Time, quantity int) ([]*model.RoomAvailability, error)
	SeedAvailability(ctx context.Context, roomID string, req *model.SeedAvailabilityRequest) (int, error)
}

type roomService struct {
	repo      repository.RoomRepository
	validator *validator.RoomValidator
	cfg       *config.Config
}

func NewRoomService(repo repository.RoomRepository, validator *validator.RoomValidator, cfg *config.Config) RoomService {
	return &roomService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.Room) (*model.Room, error) {
	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return nil, apperrors.Validation("Invalid room", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create room", "name", room.Name, "error", err)
		return nil, apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created", "room_id", room.ID, "name", room.Name)
	return room, nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	return room, nil
}

func (s *roomService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error) {
	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rooms", "error", errCount)
			errCount = apperrors.Internal("Failed to count rooms", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rooms", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve rooms", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

func (s *roomService) Search(ctx context.Context, start, end time.Time, quantity int) ([]*model.RoomAvailability, error) {
	if err := s.validator.ValidateSearch(start, end, quantity); err != nil {
		return nil, apperrors.Validation("Invalid search window", map[string]any{"error": err.Error()})
	}

	results, err := s.repo.SearchAvailable(ctx, start, end, quantity)
	if err != nil {
		s.cfg.Log.Error("Availability search failed",
			"start", dateutil.Format(start),
			"end", dateutil.Format(end),
			"error", err,
		)
		return nil, apperrors.Internal("Failed to search availability", err)
	}

	return results, nil
}

// SeedAvailability creates the per-date inventory for a room. Returns the
// number of dates in the seeded range.
func (s *roomService) SeedAvailability(ctx context.Context, roomID string, req *model.SeedAvailabilityRequest) (int, error) {
	if err := s.validator.ValidateSeed(req); err != nil {
		s.cfg.Log.Warn("Seed validation failed", "room_id", roomID, "error", err)
		return 0, apperrors.Validation("Invalid seed request", map[string]any{"error": err.Error()})
	}

	// The room must exist before inventory is attached to it.
	room, err := s.GetByID(ctx, roomID)
	if err != nil {
		return 0, err
	}
	if req.Units == 0 {
		req.Units = room.Capacity
	}

	days, err := dateutil.ExpandRange(req.StartDate, req.EndDate)
	if err != nil {
		return 0, apperrors.InvalidInput(err.Error())
	}

	if err := s.repo.SeedAvailability(ctx, roomID, days, req.Units); err != nil {
		s.cfg.Log.Error("Failed to seed availability", "room_id", roomID, "error", err)
		return 0, apperrors.Internal("Failed to seed availability", err)
	}

	s.cfg.Log.Info("Availability seeded",
		"room_id", roomID,
		"start_date", dateutil.Format(req.StartDate),
		"end_date", dateutil.Format(req.EndDate),
		"units", req.Units,
		"dates", len(days),
	)
	return len(days), nil
}
