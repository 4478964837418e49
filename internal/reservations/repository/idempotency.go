package repository

import (
	"context"
	"errors"
	"fmt"
	reservationserrors "roomly/internal/reservations/errors"
	"roomly/pkg/config"
	"roomly/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const IdempotencyCollectionName = "Idempotency_keys"

// IdempotencyRepository maps caller-supplied keys to booking IDs so retried
// reservation requests replay the original outcome instead of booking twice.
type IdempotencyRepository interface {
	// Lookup returns the booking ID recorded for a live key, or
	// ErrIdempotencyMiss.
	Lookup(ctx context.Context, key string) (string, error)

	// Record stores the mapping with first-writer-wins semantics: a second
	// Record for a live key is a silent no-op, never an overwrite.
	Record(ctx context.Context, key string, bookingID string, ttl time.Duration) error
}

type mongoIdempotencyRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoIdempotencyRepository(cfg *config.Config) IdempotencyRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoIdempotencyRepository{
		cfg:        cfg,
		collection: db.Collection(IdempotencyCollectionName),
	}
}

func (r *mongoIdempotencyRepository) Lookup(ctx context.Context, key string) (string, error) {
	// The expiry filter guards against Mongo's lazy TTL deletion: a record
	// past its expiry must behave as absent even if not yet reaped.
	filter := bson.M{
		"_id":        key,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}

	var record model.IdempotencyRecord
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", reservationserrors.ErrIdempotencyMiss
		}
		return "", fmt.Errorf("failed to look up idempotency key: %w", err)
	}

	return record.BookingID, nil
}

func (r *mongoIdempotencyRepository) Record(ctx context.Context, key string, bookingID string, ttl time.Duration) error {
	now := time.Now().UTC()
	record := &model.IdempotencyRecord{
		Key:       key,
		BookingID: bookingID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to record idempotency key: %w", err)
	}
	return nil
}
