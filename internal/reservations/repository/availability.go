package repository

import (
	"context"
	"fmt"
	reservationserrors "roomly/internal/reservations/errors"
	"roomly/pkg/config"
	"roomly/pkg/dateutil"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const AvailabilityCollectionName = "Availability"

// AvailabilityRepository is the ledger of remaining units per (room, date).
// ConditionalDecrement and Increment are the only mutations; callers never
// read-modify-write a counter. Seeding and reads belong to the rooms service,
// which owns the catalog side of this collection.
type AvailabilityRepository interface {
	// ConditionalDecrement atomically checks available_units >= quantity and
	// subtracts. A single storage operation, so two concurrent decrements
	// can never both succeed on the last unit. Returns
	// InsufficientAvailabilityError when the counter cannot cover quantity.
	ConditionalDecrement(ctx context.Context, roomID string, date time.Time, quantity int) error

	// Increment adds units back. Used by cancellation; rollback of a failed
	// reservation is done by transaction abort, not by compensating calls.
	Increment(ctx context.Context, roomID string, date time.Time, quantity int) error
}

type mongoAvailabilityRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityRepository{
		cfg:        cfg,
		collection: db.Collection(AvailabilityCollectionName),
	}
}

func (r *mongoAvailabilityRepository) ConditionalDecrement(ctx context.Context, roomID string, date time.Time, quantity int) error {
	day := dateutil.Day(date)

	filter := bson.M{
		"room_id":         roomID,
		"date":            day,
		"available_units": bson.M{"$gte": quantity},
	}
	update := bson.M{
		"$inc": bson.M{"available_units": -quantity},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to decrement availability: %w", err)
	}
	if result.ModifiedCount == 0 {
		return &reservationserrors.InsufficientAvailabilityError{Date: day}
	}
	return nil
}

func (r *mongoAvailabilityRepository) Increment(ctx context.Context, roomID string, date time.Time, quantity int) error {
	day := dateutil.Day(date)

	filter := bson.M{
		"room_id": roomID,
		"date":    day,
	}
	update := bson.M{
		"$inc": bson.M{"available_units": quantity},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to increment availability: %w", err)
	}
	if result.ModifiedCount == 0 {
		return fmt.Errorf("no availability record for room %s date %s", roomID, dateutil.Format(day))
	}
	return nil
}
