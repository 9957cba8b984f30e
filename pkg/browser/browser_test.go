package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
)

func TestClose_IdempotentAndNeverStarted(t *testing.T) {
	mgr := NewManager(0)

	// Closing a manager that never launched a browser is a no-op, and
	// closing twice is safe.
	if err := mgr.Close(); err != nil {
		t.Fatalf("Close on never-started manager: %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Fatalf("Second Close: %v", err)
	}

	// A closed manager refuses new pages instead of relaunching.
	err := mgr.WithPage("https://example.com", func(ctx context.Context) error { return nil })
	if err == nil {
		t.Error("WithPage on closed manager should fail")
	}
}

func TestWithPage_ReturnsAtContentLoaded(t *testing.T) {
	// Needs a local Chrome install.
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(8 * time.Second)
		w.Write([]byte("<html><body>late frame</body></html>"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>early content</p><iframe src="/slow"></iframe></body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	mgr := NewManager(20 * time.Second)
	defer mgr.Close()

	start := time.Now()
	var text string
	err := mgr.WithPage(server.URL, func(pageCtx context.Context) error {
		return chromedp.Run(pageCtx, chromedp.Text("body", &text, chromedp.ByQuery))
	})
	if err != nil {
		t.Fatalf("WithPage failed: %v", err)
	}

	// The iframe holds the frame's load event for 8s; returning at DOM
	// content loaded means we finish well before that.
	if elapsed := time.Since(start); elapsed >= 6*time.Second {
		t.Errorf("WithPage took %s, expected return at content loaded, not full load", elapsed)
	}
	if !strings.Contains(text, "early content") {
		t.Errorf("Page text = %q, want the parsed document content", text)
	}
}
