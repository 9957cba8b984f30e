package db

import (
	"context"
	"fmt"

	"award-watch/pkg/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds configuration for a MongoDB sink.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoSink upserts award events into a MongoDB collection.
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoSink connects to MongoDB and verifies the connection.
func NewMongoSink(ctx context.Context, cfg MongoConfig) (*MongoSink, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = "awardwatch"
	}
	if cfg.Collection == "" {
		cfg.Collection = "award_events"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoSink{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// SaveEvents upserts each event keyed on (source_url, contract_id).
func (s *MongoSink) SaveEvents(ctx context.Context, events []domain.AwardEvent) (int, error) {
	saved := 0
	for _, ev := range events {
		filter := bson.M{"source_url": ev.SourceURL, "contract_id": ev.ContractID}
		update := bson.M{"$set": ev}

		_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			return saved, &domain.SinkError{Backend: "mongo", Err: err}
		}
		saved++
	}
	return saved, nil
}

// Close disconnects from MongoDB.
func (s *MongoSink) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
