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

type MongoFinancialLogs struct {
	coll *mongo.Collection
}

func NewMongoFinancialLogs(db *mongo.Database) *MongoFinancialLogs {
	return &MongoFinancialLogs{coll: db.Collection(config.FinancialLogsCollection)}
}

// Insert writes the log and its totals as one document.
func (s *MongoFinancialLogs) Insert(ctx context.Context, log *models.FinancialLog) error {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("insert financial log: %w", err)
	}
	return nil
}

func (s *MongoFinancialLogs) FindByID(ctx context.Context, id primitive.ObjectID) (models.FinancialLog, error) {
	var log models.FinancialLog
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&log); err != nil {
		return models.FinancialLog{}, notFound(err)
	}
	return log, nil
}

func (s *MongoFinancialLogs) FindDatedIn(ctx context.Context, r utils.DayRange) ([]models.FinancialLog, error) {
	filter := bson.M{"date": bson.M{"$gte": r.Start, "$lte": r.End}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find financial logs: %w", err)
	}
	defer cursor.Close(ctx)

	logs := []models.FinancialLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("decode financial logs: %w", err)
	}
	return logs, nil
}

func (s *MongoFinancialLogs) UpdateLineItems(ctx context.Context, id primitive.ObjectID, in models.Income, adjs []models.Adjustment, exps []models.Expense, now time.Time) (models.FinancialLog, error) {
	return s.set(ctx, id, bson.M{
		"income":              in,
		"accountsAdjustments": adjs,
		"expenses":            exps,
		"updatedAt":           now,
	})
}

func (s *MongoFinancialLogs) UpdateTotals(ctx context.Context, id primitive.ObjectID, totals models.Totals, now time.Time) (models.FinancialLog, error) {
	return s.set(ctx, id, bson.M{"totals": totals, "updatedAt": now})
}

func (s *MongoFinancialLogs) set(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.FinancialLog, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var log models.FinancialLog
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&log)
	if err != nil {
		return models.FinancialLog{}, notFound(err)
	}
	return log, nil
}
