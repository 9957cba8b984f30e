package db

import (
	"context"
	"fmt"

	"award-watch/pkg/domain"

	supabase "github.com/supabase-community/supabase-go"
)

// SupabaseConfig holds what we need to reach a Supabase project over its
// REST API. Use the service_role key server-side.
type SupabaseConfig struct {
	// URL is the project URL, e.g. "https://[project-ref].supabase.co".
	URL string
	// Key is the Supabase API key.
	Key string
	// Table is the award-events table name.
	Table string
}

// SupabaseSink upserts award events through PostgREST.
type SupabaseSink struct {
	client *supabase.Client
	table  string
}

// NewSupabaseSink constructs and connects a Supabase-backed sink.
func NewSupabaseSink(cfg SupabaseConfig) (*SupabaseSink, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, fmt.Errorf("supabase URL and key are required")
	}
	if cfg.Table == "" {
		cfg.Table = "award_events"
	}

	client, err := supabase.NewClient(cfg.URL, cfg.Key, nil)
	if err != nil {
		return nil, fmt.Errorf("initialize supabase client: %w", err)
	}

	return &SupabaseSink{client: client, table: cfg.Table}, nil
}

// SaveEvents upserts the batch in one call, keyed on
// (source_url, contract_id).
func (s *SupabaseSink) SaveEvents(ctx context.Context, events []domain.AwardEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	_, count, err := s.client.From(s.table).
		Upsert(events, "source_url,contract_id", "minimal", "exact").
		Execute()
	if err != nil {
		return 0, &domain.SinkError{Backend: "supabase", Err: err}
	}

	saved := int(count)
	if saved == 0 {
		// PostgREST omits the count on some minimal-return configs;
		// the write still happened.
		saved = len(events)
	}
	return saved, nil
}

// Close is a no-op: the REST client holds no persistent connection.
func (s *SupabaseSink) Close(ctx context.Context) error { return nil }
