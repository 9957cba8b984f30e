package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the operational controls for the ingestion service.
// Values come from an optional YAML file (CONFIG_FILE) with environment
// variables taking precedence, so deployments can override any single
// knob without a file edit.
type Config struct {
	// FeedURL is the press-release feed endpoint.
	FeedURL string `yaml:"feed_url"`

	// MaxItems caps items per ingest call (further bounded by the hard
	// ceiling in the orchestrator).
	MaxItems int `yaml:"max_items"`

	// ItemDelay is the pause between one item's context teardown and
	// the next item's navigation.
	ItemDelay time.Duration `yaml:"item_delay"`

	// RenderTimeout bounds each page navigation.
	RenderTimeout time.Duration `yaml:"render_timeout"`

	// RenderSettle is the post-navigation delay before reading text.
	RenderSettle time.Duration `yaml:"render_settle"`

	// WindowJobs / Window bound rendering throughput: at most
	// WindowJobs admissions per rolling Window.
	WindowJobs int           `yaml:"window_jobs"`
	Window     time.Duration `yaml:"window"`

	// ListenAddr is the HTTP server bind address.
	ListenAddr string `yaml:"listen_addr"`

	Sink SinkConfig `yaml:"sink"`
}

// SinkConfig selects and configures the persistence backend. An empty
// Backend means events are computed but never stored.
type SinkConfig struct {
	Backend string `yaml:"backend"` // "", "supabase", "postgres", "mongo"

	SupabaseURL   string `yaml:"supabase_url"`
	SupabaseKey   string `yaml:"supabase_key"`
	SupabaseTable string `yaml:"supabase_table"`

	PostgresDSN   string `yaml:"postgres_dsn"`
	PostgresTable string `yaml:"postgres_table"`

	MongoURI        string `yaml:"mongo_uri"`
	MongoDB         string `yaml:"mongo_db"`
	MongoCollection string `yaml:"mongo_collection"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		FeedURL:       "https://www.defense.gov/DesktopModules/ArticleCS/RSS.ashx?ContentType=400&Site=945&max=10",
		MaxItems:      10,
		ItemDelay:     1500 * time.Millisecond,
		RenderTimeout: 60 * time.Second,
		RenderSettle:  2 * time.Second,
		WindowJobs:    10,
		Window:        time.Minute,
		ListenAddr:    ":8080",
	}
}

// Load builds the config from defaults, the optional YAML file named by
// CONFIG_FILE, and environment variable overrides, in that order.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	envStr("FEED_URL", &cfg.FeedURL)
	envInt("MAX_ITEMS", &cfg.MaxItems)
	envMillis("ITEM_DELAY_MS", &cfg.ItemDelay)
	envMillis("RENDER_TIMEOUT_MS", &cfg.RenderTimeout)
	envMillis("RENDER_SETTLE_MS", &cfg.RenderSettle)
	envInt("RENDER_WINDOW_JOBS", &cfg.WindowJobs)
	envMillis("RENDER_WINDOW_MS", &cfg.Window)
	envStr("LISTEN_ADDR", &cfg.ListenAddr)

	envStr("SINK_BACKEND", &cfg.Sink.Backend)
	envStr("SUPABASE_URL", &cfg.Sink.SupabaseURL)
	envStr("SUPABASE_KEY", &cfg.Sink.SupabaseKey)
	envStr("SUPABASE_TABLE", &cfg.Sink.SupabaseTable)
	envStr("PG_DSN", &cfg.Sink.PostgresDSN)
	envStr("PG_TABLE", &cfg.Sink.PostgresTable)
	envStr("MONGO_URI", &cfg.Sink.MongoURI)
	envStr("MONGO_DB", &cfg.Sink.MongoDB)
	envStr("MONGO_COLLECTION", &cfg.Sink.MongoCollection)
}

func envStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envMillis(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			*dst = time.Duration(n) * time.Millisecond
		}
	}
}
