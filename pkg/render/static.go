package render

import (
	"context"
	"strings"
	"time"

	"award-watch/pkg/domain"
	"award-watch/pkg/httpclient"

	"github.com/go-shiori/go-readability"
)

// StaticRenderer fetches pages over plain HTTP instead of driving the
// browser. Article pages that don't need script execution render fine
// this way, and tests use it against httptest servers.
type StaticRenderer struct {
	client     *httpclient.Client
	strategies []Strategy
}

// NewStaticRenderer creates a renderer backed by a plain HTTP client.
func NewStaticRenderer(timeout time.Duration) *StaticRenderer {
	return &StaticRenderer{
		client:     httpclient.New(timeout),
		strategies: DefaultStrategies,
	}
}

// Render fetches the page and extracts text through the selector chain,
// falling back to readability extraction when no selector matches.
func (r *StaticRenderer) Render(ctx context.Context, url string) (*domain.RenderedPage, error) {
	html, err := r.client.GetBody(url)
	if err != nil {
		return nil, &domain.RenderError{URL: url, Err: err}
	}

	page := &domain.RenderedPage{
		Text: ExtractText(html, r.strategies),
	}

	if article, err := readability.FromReader(strings.NewReader(html), nil); err == nil {
		page.Title = strings.TrimSpace(article.Title)
		if page.Text == "" {
			page.Text = strings.TrimSpace(article.TextContent)
		}
	}

	return page, nil
}
