package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"award-watch/pkg/browser"
	"award-watch/pkg/config"
	"award-watch/pkg/db"
	"award-watch/pkg/extract"
	"award-watch/pkg/feed"
	"award-watch/pkg/ingest"
	"award-watch/pkg/ratelimit"
	"award-watch/pkg/render"
)

func main() {
	var (
		feedURL = flag.String("feed", "", "Feed URL (defaults to configured press-release feed)")
		limit   = flag.Int("limit", 0, "Max feed items to process this run (0 = configured MAX_ITEMS)")
		persist = flag.Bool("persist", false, "Persist extracted events to the configured sink")
		static  = flag.Bool("static", false, "Fetch pages over plain HTTP instead of the browser")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *feedURL != "" {
		cfg.FeedURL = *feedURL
	}

	ctx := context.Background()

	sink, err := db.Open(ctx, cfg.Sink)
	if err != nil {
		log.Fatalf("Failed to open sink: %v", err)
	}
	if sink != nil {
		defer sink.Close(ctx)
	}

	var renderer render.Renderer
	if *static {
		renderer = render.NewStaticRenderer(cfg.RenderTimeout)
	} else {
		mgr := browser.NewManager(cfg.RenderTimeout)
		defer mgr.Close()
		renderer = render.NewPageRenderer(mgr, cfg.RenderSettle)
	}

	service := ingest.NewService(
		feed.NewFetcher(cfg.FeedURL),
		renderer,
		extract.New(),
		ratelimit.NewGate(cfg.WindowJobs, cfg.Window),
		sink,
		cfg.ItemDelay,
	)
	service.SetDefaultLimit(cfg.MaxItems)

	start := time.Now()
	log.Printf("Ingesting from %s (limit=%d persist=%v)", cfg.FeedURL, *limit, *persist)

	summary, _, err := service.Ingest(ctx, *limit, *persist)
	if err != nil {
		log.Fatalf("Ingest failed: %v", err)
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	os.Stdout.Write(append(out, '\n'))
	log.Printf("Done. Duration: %s", time.Since(start))
}
