package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"award-watch/pkg/domain"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const defaultNavTimeout = 60 * time.Second

// Manager owns the single shared headless-Chrome process. The browser is
// started lazily on first use and reused for the process lifetime; each
// page fetch gets a fresh, short-lived tab context so cookies and cache
// never bleed between unrelated fetches.
//
// Close is the only way the shared browser dies. It is idempotent and
// treats "never started" as a no-op, so signal handlers can call it
// unconditionally.
type Manager struct {
	mu          sync.Mutex
	allocCancel context.CancelFunc
	browserCtx  context.Context
	browserStop context.CancelFunc
	navTimeout  time.Duration
	closed      bool
}

// NewManager creates a manager. navTimeout bounds each navigation;
// zero means the default 60s ceiling.
func NewManager(navTimeout time.Duration) *Manager {
	if navTimeout <= 0 {
		navTimeout = defaultNavTimeout
	}
	return &Manager{navTimeout: navTimeout}
}

// ensureStarted lazily launches the shared browser process.
func (m *Manager) ensureStarted() (context.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("browser manager is closed")
	}
	if m.browserCtx != nil {
		return m.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserStop := chromedp.NewContext(allocCtx)

	// Launch the process now so a broken Chrome install fails fast
	// instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserStop()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	m.allocCancel = allocCancel
	m.browserCtx = browserCtx
	m.browserStop = browserStop
	return browserCtx, nil
}

// WithPage creates an isolated tab context, blocks image/font/media
// requests, navigates to url under the navigation timeout, invokes fn
// with the page context, and tears the tab down on every exit path.
// Navigation and timeout failures surface as *domain.RenderError; they
// never crash the shared browser or leak the tab.
func (m *Manager) WithPage(url string, fn func(pageCtx context.Context) error) error {
	browserCtx, err := m.ensureStarted()
	if err != nil {
		return &domain.RenderError{URL: url, Err: err}
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()

	pageCtx, cancelTimeout := context.WithTimeout(tabCtx, m.navTimeout)
	defer cancelTimeout()

	interceptResources(pageCtx)

	if err := chromedp.Run(pageCtx, fetch.Enable(), navigateContentLoaded(url)); err != nil {
		return &domain.RenderError{URL: url, Err: err}
	}

	if err := fn(pageCtx); err != nil {
		return &domain.RenderError{URL: url, Err: err}
	}
	return nil
}

// navigateContentLoaded navigates to url and returns once the DOM
// content loaded event fires, instead of waiting for the frame's full
// load event. Slow trailing resources keep streaming in the background,
// bounded by the settle delay and the navigation timeout.
func navigateContentLoaded(url string) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		contentLoaded := make(chan struct{})
		var once sync.Once

		lctx, cancel := context.WithCancel(ctx)
		defer cancel()
		chromedp.ListenTarget(lctx, func(ev interface{}) {
			if _, ok := ev.(*page.EventDomContentEventFired); ok {
				once.Do(func() { close(contentLoaded) })
				cancel()
			}
		})

		_, _, errText, err := page.Navigate(url).Do(ctx)
		if err != nil {
			return err
		}
		if errText != "" {
			return fmt.Errorf("navigate %s: %s", url, errText)
		}

		select {
		case <-contentLoaded:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// interceptResources aborts requests for resource types that are
// irrelevant to text extraction.
func interceptResources(ctx context.Context) {
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		req, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			c := chromedp.FromContext(ctx)
			execCtx := cdp.WithExecutor(ctx, c.Target)
			switch req.ResourceType {
			case network.ResourceTypeImage, network.ResourceTypeFont, network.ResourceTypeMedia:
				_ = fetch.FailRequest(req.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx)
			default:
				_ = fetch.ContinueRequest(req.RequestID).Do(execCtx)
			}
		}()
	})
}

// Close shuts the shared browser down. Idempotent; tolerates a manager
// that never started.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	if m.browserStop != nil {
		m.browserStop()
	}
	if m.allocCancel != nil {
		m.allocCancel()
	}
	m.browserCtx = nil
	return nil
}
