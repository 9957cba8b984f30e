package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.FeedURL == "" {
		t.Error("Default feed URL is empty")
	}
	if cfg.ItemDelay != 1500*time.Millisecond {
		t.Errorf("ItemDelay = %s, want 1.5s", cfg.ItemDelay)
	}
	if cfg.Sink.Backend != "" {
		t.Errorf("Default sink backend = %q, want compute-only", cfg.Sink.Backend)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FEED_URL", "https://example.com/feed")
	t.Setenv("MAX_ITEMS", "5")
	t.Setenv("ITEM_DELAY_MS", "250")
	t.Setenv("SINK_BACKEND", "supabase")
	t.Setenv("SUPABASE_TABLE", "events_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.FeedURL != "https://example.com/feed" {
		t.Errorf("FeedURL = %q", cfg.FeedURL)
	}
	if cfg.MaxItems != 5 {
		t.Errorf("MaxItems = %d", cfg.MaxItems)
	}
	if cfg.ItemDelay != 250*time.Millisecond {
		t.Errorf("ItemDelay = %s", cfg.ItemDelay)
	}
	if cfg.Sink.Backend != "supabase" || cfg.Sink.SupabaseTable != "events_test" {
		t.Errorf("Sink = %+v", cfg.Sink)
	}
}

func TestLoad_YAMLFileWithEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("feed_url: https://file.example.com/feed\nmax_items: 3\nsink:\n  backend: mongo\n  mongo_uri: mongodb://localhost:27017\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MAX_ITEMS", "7") // env wins over file

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.FeedURL != "https://file.example.com/feed" {
		t.Errorf("FeedURL = %q, want file value", cfg.FeedURL)
	}
	if cfg.MaxItems != 7 {
		t.Errorf("MaxItems = %d, want env override 7", cfg.MaxItems)
	}
	if cfg.Sink.Backend != "mongo" || cfg.Sink.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("Sink = %+v", cfg.Sink)
	}
}

func TestLoad_BadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\tnot yaml"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Error("Expected error for malformed config file")
	}
}
