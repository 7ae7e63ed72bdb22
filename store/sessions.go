package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"casri/config"
	"casri/models"
)

type MongoSessions struct {
	coll *mongo.Collection
}

func NewMongoSessions(db *mongo.Database) *MongoSessions {
	return &MongoSessions{coll: db.Collection(config.SessionsCollection)}
}

func (s *MongoSessions) Insert(ctx context.Context, session *models.Session) error {
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// FindByUser lists the latest logins of user, newest first.
func (s *MongoSessions) FindByUser(ctx context.Context, user primitive.ObjectID, limit int64) ([]models.Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := s.coll.Find(ctx, bson.M{"user_id": user}, opts)
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}
	defer cursor.Close(ctx)

	sessions := []models.Session{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return sessions, nil
}
