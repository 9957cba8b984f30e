package render

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"award-watch/pkg/domain"
)

func TestExtractText_SelectorChainOrder(t *testing.T) {
	html := `<html><body>
		<main><p>main text</p></main>
		<article><div class="content"><p>article content text</p></div></article>
		<div class="content"><p>generic content text</p></div>
	</body></html>`

	// The most specific strategy wins even though others also match.
	if got := ExtractText(html, DefaultStrategies); got != "article content text" {
		t.Errorf("ExtractText = %q, want the article content container", got)
	}
}

func TestExtractText_FallsThroughToBody(t *testing.T) {
	html := `<html><body><p>only body copy here</p></body></html>`
	if got := ExtractText(html, DefaultStrategies); got != "only body copy here" {
		t.Errorf("ExtractText = %q", got)
	}
}

func TestExtractText_ParagraphBoundariesPreserved(t *testing.T) {
	html := `<html><body><article>
		<p>ARMY</p>
		<p>first award paragraph</p>
		<p>second award paragraph</p>
	</article></body></html>`

	got := ExtractText(html, DefaultStrategies)
	want := "ARMY\n\nfirst award paragraph\n\nsecond award paragraph"
	if got != want {
		t.Errorf("ExtractText = %q, want %q", got, want)
	}
}

func TestExtractText_SkipsEmptyContainers(t *testing.T) {
	html := `<html><body>
		<article>   </article>
		<main><p>fallback main text</p></main>
	</body></html>`

	if got := ExtractText(html, DefaultStrategies); got != "fallback main text" {
		t.Errorf("ExtractText = %q, want non-empty fallback container", got)
	}
}

func TestStaticRenderer_Render(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Contracts for June 1, 2024</title></head>
			<body><article><p>ARMY</p><p>XYZ Corp of Anytown, VA, has been awarded a $12.5 million contract.</p></article></body></html>`))
	}))
	defer server.Close()

	page, err := NewStaticRenderer(5*time.Second).Render(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if page.Title != "Contracts for June 1, 2024" {
		t.Errorf("Title = %q", page.Title)
	}
	if !strings.Contains(page.Text, "ARMY\n\nXYZ Corp") {
		t.Errorf("Text = %q, expected paragraph-separated content", page.Text)
	}
}

func TestStaticRenderer_FailureIsRenderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewStaticRenderer(5*time.Second).Render(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}

	var renderErr *domain.RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("Expected *domain.RenderError, got %T: %v", err, err)
	}
	if renderErr.URL != server.URL {
		t.Errorf("RenderError.URL = %q, want %q", renderErr.URL, server.URL)
	}
}
