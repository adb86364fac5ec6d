// Package mongodb implements repository.Store on MongoDB. Money is stored as
// Decimal128 and ids are sequential integers kept in a counters collection.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/repository"
)

const (
	collAircraft  = "aircraft"
	collEmployees = "employees"
	collServices  = "services"
	collExpenses  = "expenses"
	collSafras    = "safras"
	collSnapshots = "report_snapshots"
	collCounters  = "counters"
)

// keyCollation makes registration and name lookups case-insensitive.
var keyCollation = &options.Collation{Locale: "pt", Strength: 2}

// MongoDBRepository implements repository.Store for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

var _ repository.Store = (*MongoDBRepository)(nil)

// NewMongoDBRepository connects, verifies the connection and makes sure the
// unique indexes exist.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}
	if err := r.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return r, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true).SetCollation(keyCollation)
	indexes := map[string][]mongo.IndexModel{
		collAircraft:  {{Keys: bson.D{{Key: "registration", Value: 1}}, Options: unique}},
		collEmployees: {{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}, {Keys: bson.D{{Key: "role", Value: 1}}}},
		collServices:  {{Keys: bson.D{{Key: "start_date", Value: 1}}}, {Keys: bson.D{{Key: "aircraft_id", Value: 1}}}},
		collExpenses: {
			{Keys: bson.D{{Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "origin", Value: 1}}},
			{Keys: bson.D{{Key: "service_id", Value: 1}}},
		},
		collSnapshots: {{Keys: bson.D{{Key: "created_at", Value: -1}}}},
	}
	for coll, specs := range indexes {
		if _, err := r.db.Collection(coll).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	r.logger.Debug("mongodb indexes ensured", zap.Int("collections", len(indexes)))
	return nil
}

// nextID increments and returns the named sequence.
func (r *MongoDBRepository) nextID(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.db.Collection(collCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return counter.Seq, nil
}

// inTransaction runs fn inside a session transaction.
func (r *MongoDBRepository) inTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// mapWriteError turns duplicate key violations into conflicts.
func mapWriteError(err error, entity, key string) error {
	if mongo.IsDuplicateKeyError(err) {
		return &models.ConflictError{Entity: entity, Key: key}
	}
	return fmt.Errorf("write %s: %w", entity, err)
}

// findOne decodes a single document, mapping a miss to NotFoundError.
func findOne(ctx context.Context, coll *mongo.Collection, filter any, out any, entity string, id any, opts ...*options.FindOneOptions) error {
	err := coll.FindOne(ctx, filter, opts...).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.NotFoundError{Entity: entity, ID: id}
	}
	if err != nil {
		return fmt.Errorf("find %s %v: %w", entity, id, err)
	}
	return nil
}

// findAll decodes every matching document.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", coll.Name(), err)
	}
	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
