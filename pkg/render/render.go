package render

import (
	"context"
	"strings"
	"time"

	"award-watch/pkg/browser"
	"award-watch/pkg/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

const defaultSettle = 2 * time.Second

// Renderer produces the visible text and title of a page. The browser
// renderer is the production path; the static renderer exists for
// browserless runs and tests.
type Renderer interface {
	Render(ctx context.Context, url string) (*domain.RenderedPage, error)
}

// Strategy is one entry in the content-extraction fallback chain: a
// named CSS selector tried in order, first non-empty match wins.
type Strategy struct {
	Name     string
	Selector string
}

// DefaultStrategies is the selector chain, most specific first and the
// whole document body as last resort. Data-driven so new fallbacks are
// an append, not a code change.
var DefaultStrategies = []Strategy{
	{Name: "article-content", Selector: "article .content"},
	{Name: "article", Selector: "article"},
	{Name: "body-copy", Selector: ".body-copy"},
	{Name: "main", Selector: "main"},
	{Name: "content", Selector: ".content"},
	{Name: "body", Selector: "body"},
}

// PageRenderer renders a page in the shared browser and extracts its
// text through the selector chain.
type PageRenderer struct {
	mgr        *browser.Manager
	settle     time.Duration
	strategies []Strategy
}

// NewPageRenderer creates a browser-backed renderer. settle is the
// post-navigation delay that lets deferred content populate; zero means
// the 2s default.
func NewPageRenderer(mgr *browser.Manager, settle time.Duration) *PageRenderer {
	if settle <= 0 {
		settle = defaultSettle
	}
	return &PageRenderer{mgr: mgr, settle: settle, strategies: DefaultStrategies}
}

// Render navigates to url, waits the settle delay, and returns the
// trimmed title and text. No retry here; callers decide retry policy.
func (r *PageRenderer) Render(ctx context.Context, url string) (*domain.RenderedPage, error) {
	var title, html string

	err := r.mgr.WithPage(url, func(pageCtx context.Context) error {
		return chromedp.Run(pageCtx,
			chromedp.Sleep(r.settle),
			chromedp.Title(&title),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		)
	})
	if err != nil {
		return nil, err
	}

	return &domain.RenderedPage{
		Title: strings.TrimSpace(title),
		Text:  ExtractText(html, r.strategies),
	}, nil
}

// ExtractText applies the selector chain to an HTML document and returns
// the text of the first matching, non-empty container. Paragraph-level
// elements are joined with blank lines so downstream paragraph splitting
// keeps working.
func ExtractText(html string, strategies []Strategy) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, s := range strategies {
		sel := doc.Find(s.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		if text := containerText(sel); text != "" {
			return text
		}
	}
	return ""
}

// containerText renders a container's visible text. Block elements each
// become their own paragraph; a container without block children falls
// back to its raw text.
func containerText(sel *goquery.Selection) string {
	var paras []string
	sel.Find("p, li, h1, h2, h3, h4, h5, h6").Each(func(i int, block *goquery.Selection) {
		if text := strings.TrimSpace(block.Text()); text != "" {
			paras = append(paras, text)
		}
	})
	if len(paras) > 0 {
		return strings.Join(paras, "\n\n")
	}
	return strings.TrimSpace(sel.Text())
}
