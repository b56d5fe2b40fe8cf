package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/gym-api/internal/models"
	"github.com/harentsoaR/gym-api/internal/store"
)

// Connect dials MongoDB and pings the primary before returning.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}
	return client, nil
}

// New wraps db's collections.
func New(db *mongo.Database) *store.Store {
	return &store.Store{
		Users:         newCollection[models.User](db.Collection(store.UsersCollection)),
		FeePackages:   newCollection[models.FeePackage](db.Collection(store.FeePackagesCollection)),
		Bills:         newCollection[models.Bill](db.Collection(store.BillsCollection)),
		Notifications: newCollection[models.Notification](db.Collection(store.NotificationsCollection)),
		Supplements:   newCollection[models.Supplement](db.Collection(store.SupplementsCollection)),
		DietDetails:   newCollection[models.DietDetail](db.Collection(store.DietDetailsCollection)),
	}
}

// EnsureIndexes creates the unique indexes listed in store.UniqueKeys.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, fields := range store.UniqueKeys {
		for _, field := range fields {
			model := mongo.IndexModel{
				Keys:    bson.D{{Key: field, Value: 1}},
				Options: options.Index().SetUnique(true),
			}
			if _, err := db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
				return fmt.Errorf("mongostore: index %s.%s: %w", name, field, err)
			}
			log.Debug().Str("collection", name).Str("field", field).Msg("unique index ensured")
		}
	}
	return nil
}

type collection[T any] struct {
	c   *mongo.Collection
	now func() time.Time
}

func newCollection[T any](c *mongo.Collection) *collection[T] {
	return &collection[T]{c: c, now: time.Now}
}

func translate(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}

func (c *collection[T]) Insert(ctx context.Context, doc *T) error {
	if _, err := c.c.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	return nil
}

func (c *collection[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var doc T
	if err := c.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (c *collection[T]) List(ctx context.Context, filter store.Filter) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := c.c.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *collection[T]) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error) {
	fields := bson.M{"updatedAt": c.now()}
	for k, v := range set {
		fields[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc T
	err := c.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (c *collection[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *collection[T]) Count(ctx context.Context, filter store.Filter) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return c.c.CountDocuments(ctx, filter)
}

func (c *collection[T]) Sum(ctx context.Context, filter store.Filter, field string) (float64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: nil}, {Key: "total", Value: bson.M{"$sum": "$" + field}}}}},
	}
	cursor, err := c.c.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var out []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}
