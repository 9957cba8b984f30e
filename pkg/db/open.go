package db

import (
	"context"
	"fmt"

	"award-watch/pkg/config"
)

// Open constructs the sink selected by cfg.Backend. An empty backend
// returns (nil, nil): the valid compute-only state.
func Open(ctx context.Context, cfg config.SinkConfig) (Sink, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "supabase":
		return NewSupabaseSink(SupabaseConfig{
			URL:   cfg.SupabaseURL,
			Key:   cfg.SupabaseKey,
			Table: cfg.SupabaseTable,
		})
	case "postgres":
		return NewPostgresSink(ctx, PostgresConfig{
			DSN:   cfg.PostgresDSN,
			Table: cfg.PostgresTable,
		})
	case "mongo":
		return NewMongoSink(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDB,
			Collection: cfg.MongoCollection,
		})
	default:
		return nil, fmt.Errorf("unknown sink backend %q", cfg.Backend)
	}
}
