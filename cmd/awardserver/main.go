package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
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
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, err := db.Open(ctx, cfg.Sink)
	if err != nil {
		log.Fatalf("Failed to open sink: %v", err)
	}
	if sink == nil {
		log.Printf("No sink configured; events will be computed but not stored")
	}

	mgr := browser.NewManager(cfg.RenderTimeout)
	service := ingest.NewService(
		feed.NewFetcher(cfg.FeedURL),
		render.NewPageRenderer(mgr, cfg.RenderSettle),
		extract.New(),
		ratelimit.NewGate(cfg.WindowJobs, cfg.Window),
		sink,
		cfg.ItemDelay,
	)
	service.SetDefaultLimit(cfg.MaxItems)

	h := &handlers{service: service}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ingest", h.handleIngest)
	mux.HandleFunc("GET /api/render", h.handleRender)
	mux.HandleFunc("GET /healthz", h.handleHealth)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("Listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Block until a termination signal, then shut down: server first,
	// then the shared browser (the handle must be closed before exit).
	<-ctx.Done()
	log.Printf("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	if err := mgr.Close(); err != nil {
		log.Printf("Browser close: %v", err)
	}
	if sink != nil {
		if err := sink.Close(shutdownCtx); err != nil {
			log.Printf("Sink close: %v", err)
		}
	}
}
