package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"casri/config"
	"casri/models"
	"casri/utils"
)

type MongoLiabilities struct {
	coll *mongo.Collection
}

func NewMongoLiabilities(db *mongo.Database) *MongoLiabilities {
	return &MongoLiabilities{coll: db.Collection(config.LiabilitiesCollection)}
}

func (s *MongoLiabilities) Insert(ctx context.Context, l *models.Liability) error {
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("insert liability: %w", err)
	}
	return nil
}

func (s *MongoLiabilities) FindByID(ctx context.Context, id primitive.ObjectID) (models.Liability, error) {
	var l models.Liability
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return models.Liability{}, notFound(err)
	}
	return l, nil
}

func (s *MongoLiabilities) FindAll(ctx context.Context) ([]models.Liability, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoLiabilities) FindCreatedIn(ctx context.Context, r utils.DayRange) ([]models.Liability, error) {
	return s.find(ctx, bson.M{"createdAt": bson.M{"$gte": r.Start, "$lte": r.End}})
}

func (s *MongoLiabilities) FindByStatus(ctx context.Context, status models.LiabilityStatus) ([]models.Liability, error) {
	return s.find(ctx, bson.M{"status": status})
}

func (s *MongoLiabilities) find(ctx context.Context, filter bson.M) ([]models.Liability, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find liabilities: %w", err)
	}
	defer cursor.Close(ctx)

	liabilities := []models.Liability{}
	if err := cursor.All(ctx, &liabilities); err != nil {
		return nil, fmt.Errorf("decode liabilities: %w", err)
	}
	return liabilities, nil
}

func (s *MongoLiabilities) Transition(ctx context.Context, id primitive.ObjectID, from, to models.LiabilityStatus, now time.Time) (models.Liability, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "settledAt": now, "updatedAt": now}}
	if to == models.LiabilityPending {
		update = bson.M{
			"$set":   bson.M{"status": to, "updatedAt": now},
			"$unset": bson.M{"settledAt": ""},
		}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var l models.Liability
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&l)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Liability{}, err
	}
	if _, err := s.FindByID(ctx, id); err != nil {
		return models.Liability{}, err
	}
	return models.Liability{}, ErrStatusMismatch
}

func (s *MongoLiabilities) Delete(ctx context.Context, id primitive.ObjectID) (models.Liability, error) {
	var l models.Liability
	if err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return models.Liability{}, notFound(err)
	}
	return l, nil
}
