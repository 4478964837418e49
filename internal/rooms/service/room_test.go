package service

import (
	"context"
	"errors"
	"testing"
	"time"

	roomserrors "roomly/internal/rooms/errors"
	"roomly/internal/rooms/validator"
	"roomly/pkg/config"
	"roomly/pkg/dateutil"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

const testRoomID = "507f1f77bcf86cd799439011"

type mockRoomRepo struct {
	createFn  func(ctx context.Context, room *model.Room) error
	findByID  func(ctx context.Context, id string) (*model.Room, error)
	findAllFn func(ctx context.Context, limit int, offset int64) ([]*model.Room, error)
	countFn   func(ctx context.Context) (int64, error)
	searchFn  func(ctx context.Context, start, end time.Time, quantity int) ([]*model.RoomAvailability, error)
	seedFn    func(ctx context.Context, roomID string, dates []time.Time, units int) error
}

func (m *mockRoomRepo) Create(ctx context.Context, room *model.Room) error {
	return m.createFn(ctx, room)
}

func (m *mockRoomRepo) FindByID(ctx context.Context, id string) (*model.Room, error) {
	return m.findByID(ctx, id)
}

func (m *mockRoomRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
	return m.findAllFn(ctx, limit, offset)
}

func (m *mockRoomRepo) Count(ctx context.Context) (int64, error) {
	return m.countFn(ctx)
}

func (m *mockRoomRepo) SearchAvailable(ctx context.Context, start, end time.Time, quantity int) ([]*model.RoomAvailability, error) {
	return m.searchFn(ctx, start, end, quantity)
}

func (m *mockRoomRepo) SeedAvailability(ctx context.Context, roomID string, dates []time.Time, units int) error {
	return m.seedFn(ctx, roomID, dates, units)
}

func newRoomService(repo *mockRoomRepo) RoomService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT}),
	}
	return NewRoomService(repo, validator.NewRoomValidator(365, cfg.Log), cfg)
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected error code %s, got %s", code, appErr.Code)
	}
}

func TestCreateRoom(t *testing.T) {
	repo := &mockRoomRepo{
		createFn: func(ctx context.Context, room *model.Room) error {
			room.ID = testRoomID
			return nil
		},
	}
	svc := newRoomService(repo)

	room, err := svc.Create(context.Background(), &model.Room{
		Name:       "Atrium",
		Location:   "Berlin",
		Capacity:   10,
		PriceCents: 15000,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if room.ID != testRoomID {
		t.Errorf("expected assigned ID, got %q", room.ID)
	}
}

func TestCreateRoomInvalid(t *testing.T) {
	repo := &mockRoomRepo{
		createFn: func(ctx context.Context, room *model.Room) error {
			t.Error("invalid room must not reach the repository")
			return nil
		},
	}
	svc := newRoomService(repo)

	_, err := svc.Create(context.Background(), &model.Room{Name: "X", Capacity: 0})
	expectCode(t, err, apperrors.CodeValidation)
}

func TestSearchRejectsInvertedRange(t *testing.T) {
	repo := &mockRoomRepo{
		searchFn: func(ctx context.Context, start, end time.Time, quantity int) ([]*model.RoomAvailability, error) {
			t.Error("invalid window must not reach the repository")
			return nil, nil
		},
	}
	svc := newRoomService(repo)

	start := dateutil.Day(time.Now().AddDate(0, 0, 7))
	_, err := svc.Search(context.Background(), start, start.AddDate(0, 0, -2), 1)
	expectCode(t, err, apperrors.CodeValidation)
}

func TestSearchPassesWindowThrough(t *testing.T) {
	start := dateutil.Day(time.Now().AddDate(0, 0, 7))
	end := start.AddDate(0, 0, 3)

	repo := &mockRoomRepo{
		searchFn: func(ctx context.Context, gotStart, gotEnd time.Time, quantity int) ([]*model.RoomAvailability, error) {
			if !gotStart.Equal(start) || !gotEnd.Equal(end) {
				t.Errorf("window mangled: got %v..%v", gotStart, gotEnd)
			}
			if quantity != 2 {
				t.Errorf("expected quantity 2, got %d", quantity)
			}
			return []*model.RoomAvailability{{ID: testRoomID, Name: "Atrium", AvailableUnits: 4}}, nil
		},
	}
	svc := newRoomService(repo)

	results, err := svc.Search(context.Background(), start, end, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].AvailableUnits != 4 {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestSeedAvailabilityDefaultsToCapacity(t *testing.T) {
	var seededUnits int
	var seededDates int

	repo := &mockRoomRepo{
		findByID: func(ctx context.Context, id string) (*model.Room, error) {
			return &model.Room{ID: id, Name: "Atrium", Location: "Berlin", Capacity: 8, PriceCents: 15000}, nil
		},
		seedFn: func(ctx context.Context, roomID string, dates []time.Time, units int) error {
			seededUnits = units
			seededDates = len(dates)
			return nil
		},
	}
	svc := newRoomService(repo)

	start := dateutil.Day(time.Now().AddDate(0, 0, 1))
	count, err := svc.SeedAvailability(context.Background(), testRoomID, &model.SeedAvailabilityRequest{
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 6),
	})
	if err != nil {
		t.Fatalf("SeedAvailability failed: %v", err)
	}
	if count != 7 || seededDates != 7 {
		t.Errorf("expected 7 seeded dates, got count=%d seeded=%d", count, seededDates)
	}
	if seededUnits != 8 {
		t.Errorf("expected units to default to capacity 8, got %d", seededUnits)
	}
}

func TestSeedAvailabilityUnknownRoom(t *testing.T) {
	repo := &mockRoomRepo{
		findByID: func(ctx context.Context, id string) (*model.Room, error) {
			return nil, roomserrors.ErrNotFound
		},
		seedFn: func(ctx context.Context, roomID string, dates []time.Time, units int) error {
			t.Error("unknown room must not be seeded")
			return nil
		},
	}
	svc := newRoomService(repo)

	start := dateutil.Day(time.Now().AddDate(0, 0, 1))
	_, err := svc.SeedAvailability(context.Background(), testRoomID, &model.SeedAvailabilityRequest{
		StartDate: start,
		EndDate:   start,
		Units:     5,
	})
	expectCode(t, err, apperrors.CodeNotFound)
}

func TestGetAll(t *testing.T) {
	repo := &mockRoomRepo{
		findAllFn: func(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
			return []*model.Room{{ID: testRoomID, Name: "Atrium"}}, nil
		},
		countFn: func(ctx context.Context) (int64, error) {
			return 1, nil
		},
	}
	svc := newRoomService(repo)

	rooms, total, err := svc.GetAll(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if total != 1 || len(rooms) != 1 {
		t.Errorf("expected 1 room, got %d (total %d)", len(rooms), total)
	}
}
