package repository

import (
	"context"
	"errors"
	"fmt"
	roomserrors "roomly/internal/rooms/errors"
	"roomly/pkg/config"
	"roomly/pkg/dateutil"
	"roomly/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RoomCollectionName         = "Rooms"
	AvailabilityCollectionName = "Availability"
)

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	FindByID(ctx context.Context, id string) (*model.Room, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Room, error)
	Count(ctx context.Context) (int64, error)

	// SearchAvailable returns rooms whose availability covers every date in
	// [start, end] with at least quantity units remaining.
	SearchAvailable(ctx context.Context, start, end time.Time, quantity int) ([]*model.RoomAvailability, error)

	// SeedAvailability inserts one availability record per date with the
	// given unit count. Existing records are left untouched so re-seeding
	// never resurrects units already consumed by bookings.
	SeedAvailability(ctx context.Context, roomID string, dates []time.Time, units int) error
}

type mongoRoomRepository struct {
	cfg          *config.Config
	collection   *mongo.Collection
	availability *mongo.Collection
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:          cfg,
		collection:   db.Collection(RoomCollectionName),
		availability: db.Collection(AvailabilityCollectionName),
	}
}

func (r *mongoRoomRepository) Create(ctx context.Context, room *model.Room) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	doc := bson.M{
		"name":        room.Name,
		"location":    room.Location,
		"capacity":    room.Capacity,
		"price_cents": room.PriceCents,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		room.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, roomserrors.ErrInvalidID
	}

	var doc roomDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, roomserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}

	return doc.toModel(), nil
}

func (r *mongoRoomRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []roomDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	rooms := make([]*model.Room, 0, len(docs))
	for i := range docs {
		rooms = append(rooms, docs[i].toModel())
	}
	return rooms, nil
}

func (r *mongoRoomRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return count, nil
}

func (r *mongoRoomRepository) SearchAvailable(ctx context.Context, start, end time.Time, quantity int) ([]*model.RoomAvailability, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	days, err := dateutil.ExpandRange(start, end)
	if err != nil {
		return nil, err
	}

	// Group per room across the range, keep rooms that have a record for
	// every requested date and whose worst date still covers quantity, then
	// join the room document. Availability stores room IDs as hex strings,
	// so the join converts before matching.
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"date": bson.M{
				"$gte": dateutil.Day(start),
				"$lte": dateutil.Day(end),
			},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$room_id",
			"minAvailable": bson.M{"$min": "$available_units"},
			"dateCount":    bson.M{"$sum": 1},
		}}},
		{{Key: "$match", Value: bson.M{
			"minAvailable": bson.M{"$gte": quantity},
			"dateCount":    len(days),
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from": RoomCollectionName,
			"let":  bson.M{"rid": bson.M{"$toObjectId": "$_id"}},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$rid"}}}},
			},
			"as": "room",
		}}},
		{{Key: "$unwind", Value: "$room"}},
		{{Key: "$project", Value: bson.M{
			"_id":             0,
			"id":              "$_id",
			"name":            "$room.name",
			"location":        "$room.location",
			"capacity":        "$room.capacity",
			"price_cents":     "$room.price_cents",
			"available_units": "$minAvailable",
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "name", Value: 1}}}},
	}

	cursor, err := r.availability.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to search availability: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*model.RoomAvailability
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}
	return results, nil
}

func (r *mongoRoomRepository) SeedAvailability(ctx context.Context, roomID string, dates []time.Time, units int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(dates))
	for _, date := range dates {
		day := dateutil.Day(date)
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"room_id": roomID, "date": day}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{"available_units": units}}).
			SetUpsert(true))
	}

	if _, err := r.availability.BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("failed to seed availability: %w", err)
	}
	return nil
}

func (r *mongoRoomRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

type roomDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	Name       string             `bson:"name"`
	Location   string             `bson:"location"`
	Capacity   int                `bson:"capacity"`
	PriceCents int                `bson:"price_cents"`
}

func (d *roomDocument) toModel() *model.Room {
	return &model.Room{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Location:   d.Location,
		Capacity:   d.Capacity,
		PriceCents: d.PriceCents,
	}
}
