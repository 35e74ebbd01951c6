package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sayanchanda7290/roomradar/config"
)

// Database holds the process-wide client and the collections handlers use.
type Database struct {
	Client             *mongo.Client
	UserCollection     *mongo.Collection
	PlacesCollection   *mongo.Collection
	BookingsCollection *mongo.Collection
}

// Connect establishes the single pooled connection shared by every store.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Database, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	database := client.Database(cfg.Database)
	return &Database{
		Client:             client,
		UserCollection:     database.Collection("users"),
		PlacesCollection:   database.Collection("places"),
		BookingsCollection: database.Collection("bookings"),
	}, nil
}

// CreateIndexes installs the unique email index plus the lookup indexes.
func (d *Database) CreateIndexes(ctx context.Context) error {
	if _, err := d.UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users email index: %w", err)
	}
	if _, err := d.PlacesCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}},
	}); err != nil {
		return fmt.Errorf("places owner index: %w", err)
	}
	if _, err := d.BookingsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	}); err != nil {
		return fmt.Errorf("bookings user index: %w", err)
	}
	log.Println("MongoDB indexes ensured")
	return nil
}

func (d *Database) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

// FindAndDecode runs a find and decodes every document into T.
// It never returns a nil slice so empty results encode as [].
func FindAndDecode[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
