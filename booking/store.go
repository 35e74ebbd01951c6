package booking

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sayanchanda7290/roomradar/apperr"
	"github.com/sayanchanda7290/roomradar/models"
)

type Store interface {
	Insert(ctx context.Context, b *models.Booking) error
	// FindByUser returns the user's bookings with the place expanded.
	FindByUser(ctx context.Context, user primitive.ObjectID) ([]models.BookingWithPlace, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.BookingWithPlace, error)
}

type MongoStore struct {
	coll   *mongo.Collection
	places string
}

// NewMongoStore joins against the collection named places on reads.
func NewMongoStore(coll *mongo.Collection, places string) *MongoStore {
	return &MongoStore{coll: coll, places: places}
}

func (s *MongoStore) Insert(ctx context.Context, b *models.Booking) error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, b)
	return err
}

func (s *MongoStore) FindByUser(ctx context.Context, user primitive.ObjectID) ([]models.BookingWithPlace, error) {
	return s.aggregate(ctx, bson.M{"user": user})
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.BookingWithPlace, error) {
	found, err := s.aggregate(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperr.New(apperr.NotFound, "Booking not found")
	}
	return &found[0], nil
}

// aggregate reads bookings matching filter and replaces each place id with
// the current place document. Bookings whose place is gone keep a null place.
func (s *MongoStore) aggregate(ctx context.Context, match bson.M) ([]models.BookingWithPlace, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         s.places,
			"localField":   "place",
			"foreignField": "_id",
			"as":           "place",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$place",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []models.BookingWithPlace{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
