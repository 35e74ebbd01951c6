package places

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sayanchanda7290/roomradar/apperr"
	"github.com/sayanchanda7290/roomradar/db"
	"github.com/sayanchanda7290/roomradar/models"
)

type Store interface {
	Insert(ctx context.Context, p *models.Place) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Place, error)
	FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Place, error)
	FindAll(ctx context.Context) ([]models.Place, error)
	// ReplaceOwned overwrites the document only while p.Owner still owns it.
	ReplaceOwned(ctx context.Context, p *models.Place) error
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, p *models.Place) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, p)
	return err
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Place, error) {
	var p models.Place
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.NotFound, "Place not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoStore) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Place, error) {
	return db.FindAndDecode[models.Place](ctx, s.coll, bson.M{"owner": owner})
}

func (s *MongoStore) FindAll(ctx context.Context) ([]models.Place, error) {
	return db.FindAndDecode[models.Place](ctx, s.coll, bson.M{})
}

func (s *MongoStore) ReplaceOwned(ctx context.Context, p *models.Place) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID, "owner": p.Owner}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "Place not found")
	}
	return nil
}
