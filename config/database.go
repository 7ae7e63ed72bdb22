package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	UsersCollection         = "users"
	ProductsCollection      = "products"
	HistoriesCollection     = "histories"
	LiabilitiesCollection   = "liabilities"
	FinancialLogsCollection = "financiallogs"
	SessionsCollection      = "sessions"
)

// ConnectDatabase dials MongoDB, pings the primary and returns the client
// together with the configured database handle.
func ConnectDatabase(cfg *Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	slog.Info("connected to MongoDB", "database", cfg.MongoDatabase)
	return client, client.Database(cfg.MongoDatabase), nil
}
