package ingest

import (
	"context"
	"log"
	"time"

	"award-watch/pkg/db"
	"award-watch/pkg/domain"
	"award-watch/pkg/extract"
	"award-watch/pkg/feed"
	"award-watch/pkg/ratelimit"
	"award-watch/pkg/render"
)

// HardItemCeiling caps items per ingest call regardless of the
// caller-supplied limit, bounding worst-case work.
const HardItemCeiling = 25

const sampleSize = 3

// Summary reports what one ingestion run did. The full event payload is
// returned separately; Sample keeps response bodies bounded.
type Summary struct {
	ArticlesSeen    int                 `json:"articles_seen"`
	EventsExtracted int                 `json:"events_extracted"`
	Saved           int                 `json:"saved"`
	SinkError       string              `json:"sink_error,omitempty"`
	Sample          []domain.AwardEvent `json:"sample"`
}

// Service sequences feed fetch -> rate-limited render -> extract over a
// bounded batch of items, then optionally persists the whole batch.
type Service struct {
	fetcher      *feed.Fetcher
	renderer     render.Renderer
	extractor    *extract.Extractor
	gate         *ratelimit.Gate
	sink         db.Sink // nil means compute-only
	itemDelay    time.Duration
	defaultLimit int
}

// NewService wires an orchestrator. sink may be nil.
func NewService(fetcher *feed.Fetcher, renderer render.Renderer, extractor *extract.Extractor, gate *ratelimit.Gate, sink db.Sink, itemDelay time.Duration) *Service {
	return &Service{
		fetcher:   fetcher,
		renderer:  renderer,
		extractor: extractor,
		gate:      gate,
		sink:      sink,
		itemDelay: itemDelay,
	}
}

// SetDefaultLimit sets the per-batch item cap used when a caller
// supplies no limit of its own.
func (s *Service) SetDefaultLimit(n int) {
	s.defaultLimit = n
}

// Ingest runs one batch. A feed transport failure aborts the whole call;
// a render/extract failure for one item is logged and that item
// contributes zero events while the batch continues. A sink failure
// never discards computed events: they are returned with Saved = 0 and
// the error recorded in the summary.
func (s *Service) Ingest(ctx context.Context, limit int, persist bool) (*Summary, []domain.AwardEvent, error) {
	items, err := s.fetcher.Fetch()
	if err != nil {
		return nil, nil, err
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit <= 0 || limit > HardItemCeiling {
		limit = HardItemCeiling
	}
	if len(items) > limit {
		items = items[:limit]
	}

	var events []domain.AwardEvent
	for i, item := range items {
		if i > 0 {
			if err := sleepCtx(ctx, s.itemDelay); err != nil {
				return nil, nil, err
			}
		}

		page, err := s.renderItem(ctx, item.Link)
		if err != nil {
			log.Printf("Skipping %s: %v", item.Link, err)
			continue
		}

		title := page.Title
		if title == "" {
			title = item.Title
		}

		extracted := s.extractor.Extract(page.Text, extract.Context{
			Link:         item.Link,
			Title:        title,
			PublishedRaw: item.PublishedRaw,
		})
		log.Printf("Extracted %d events from %s", len(extracted), item.Link)
		events = append(events, extracted...)
	}

	summary := &Summary{
		ArticlesSeen:    len(items),
		EventsExtracted: len(events),
		Sample:          sample(events),
	}

	if persist && len(events) > 0 {
		if s.sink == nil {
			log.Printf("No sink configured, skipping persistence of %d events", len(events))
		} else if saved, err := s.sink.SaveEvents(ctx, events); err != nil {
			log.Printf("Sink save failed: %v", err)
			summary.SinkError = err.Error()
		} else {
			summary.Saved = saved
		}
	}

	return summary, events, nil
}

// RenderPage renders a single URL through the shared admission gate, so
// ad-hoc render requests and ingestion batches contend for the same
// one-job-in-flight slot.
func (s *Service) RenderPage(ctx context.Context, url string) (*domain.RenderedPage, error) {
	return s.renderItem(ctx, url)
}

func (s *Service) renderItem(ctx context.Context, url string) (*domain.RenderedPage, error) {
	if err := s.gate.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.gate.Release()

	return s.renderer.Render(ctx, url)
}

func sample(events []domain.AwardEvent) []domain.AwardEvent {
	if len(events) <= sampleSize {
		return events
	}
	return events[:sampleSize]
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
