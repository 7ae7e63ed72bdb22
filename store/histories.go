package store

import (
	"context"
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

type MongoHistories struct {
	coll *mongo.Collection
}

func NewMongoHistories(db *mongo.Database) *MongoHistories {
	return &MongoHistories{coll: db.Collection(config.HistoriesCollection)}
}

// Append relies on the unique (user, date) index: the server retries an
// upsert that loses a duplicate-key race, so one document exists per day.
func (s *MongoHistories) Append(ctx context.Context, user primitive.ObjectID, day time.Time, entry models.HistoryEntry) error {
	filter := bson.M{"user": user, "date": day}
	update := bson.M{"$push": bson.M{"products": entry}}

	_, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *MongoHistories) FindForDay(ctx context.Context, user primitive.ObjectID, r utils.DayRange) (models.History, error) {
	filter := bson.M{"user": user, "date": bson.M{"$gte": r.Start, "$lte": r.End}}

	var h models.History
	if err := s.coll.FindOne(ctx, filter).Decode(&h); err != nil {
		return models.History{}, notFound(err)
	}
	return h, nil
}

func (s *MongoHistories) FindByUser(ctx context.Context, user primitive.ObjectID) ([]models.History, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"user": user}, opts)
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}
	defer cursor.Close(ctx)

	histories := []models.History{}
	if err := cursor.All(ctx, &histories); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return histories, nil
}
