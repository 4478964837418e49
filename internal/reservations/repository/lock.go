package repository

import (
	"context"
	"fmt"
	reservationserrors "roomly/internal/reservations/errors"
	"roomly/pkg/config"
	"roomly/pkg/model"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Resource_locks"

// ResourceLockRepository implements the per-room distributed lock: a single
// document keyed by room ID, owned by a token, expiring by TTL. Acquire is a
// single attempt; there is no wait queue.
type ResourceLockRepository interface {
	Acquire(ctx context.Context, roomID string, ttl time.Duration) (string, error)
	Release(ctx context.Context, roomID string, token string) error
}

type mongoResourceLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoResourceLockRepository(cfg *config.Config) ResourceLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoResourceLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

// Acquire inserts the lock document; a duplicate key means another attempt
// holds the room. Mongo's TTL monitor deletes expired locks lazily, so on
// conflict we additionally try to replace a lock whose expiry has passed.
// Exactly one concurrent caller can win either path.
func (r *mongoResourceLockRepository) Acquire(ctx context.Context, roomID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	lock := &model.ResourceLock{
		RoomID:    roomID,
		Token:     uuid.New().String(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err == nil {
		return lock.Token, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return "", fmt.Errorf("failed to acquire resource lock: %w", err)
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{
		"_id":        roomID,
		"expires_at": bson.M{"$lt": now},
	}, lock)
	if err != nil {
		return "", fmt.Errorf("failed to take over expired lock: %w", err)
	}
	if result.ModifiedCount == 0 {
		return "", reservationserrors.ErrLockBusy
	}
	return lock.Token, nil
}

// Release is a compare-and-delete: it removes the lock only when the stored
// token matches. A holder whose TTL expired cannot destroy a lock that a
// later attempt re-acquired.
func (r *mongoResourceLockRepository) Release(ctx context.Context, roomID string, token string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":   roomID,
		"token": token,
	})
	if err != nil {
		return fmt.Errorf("failed to release resource lock: %w", err)
	}
	if result.DeletedCount == 0 {
		return reservationserrors.ErrLockNotOwner
	}
	return nil
}
