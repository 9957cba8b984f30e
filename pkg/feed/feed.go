package feed

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"award-watch/pkg/domain"
	"award-watch/pkg/httpclient"

	"github.com/mmcdole/gofeed"
)

const fetchTimeout = 30 * time.Second

// canonicalHosts maps known equivalent hostnames to the one canonical
// host we want all article links to use.
var canonicalHosts = map[string]string{
	"dod.defense.gov": "www.defense.gov",
}

var itemBlockRe = regexp.MustCompile(`(?s)<item[\s>].*?</item>`)

// Per-field patterns for the permissive scan. The CDATA form is tried
// first, the plain form is the fallback.
var fieldPatterns = map[string][]*regexp.Regexp{
	"title": {
		regexp.MustCompile(`(?s)<title[^>]*>\s*<!\[CDATA\[(.*?)\]\]>\s*</title>`),
		regexp.MustCompile(`(?s)<title[^>]*>(.*?)</title>`),
	},
	"link": {
		regexp.MustCompile(`(?s)<link[^>]*>\s*<!\[CDATA\[(.*?)\]\]>\s*</link>`),
		regexp.MustCompile(`(?s)<link[^>]*>(.*?)</link>`),
	},
	"pubDate": {
		regexp.MustCompile(`(?s)<pubDate[^>]*>\s*<!\[CDATA\[(.*?)\]\]>\s*</pubDate>`),
		regexp.MustCompile(`(?s)<pubDate[^>]*>(.*?)</pubDate>`),
	},
}

// Fetcher retrieves the press-release feed and parses it into items.
type Fetcher struct {
	client  *httpclient.Client
	feedURL string
	parser  *gofeed.Parser
}

// NewFetcher creates a fetcher for the given feed URL.
func NewFetcher(feedURL string) *Fetcher {
	return &Fetcher{
		client:  httpclient.New(fetchTimeout),
		feedURL: feedURL,
		parser:  gofeed.NewParser(),
	}
}

// Fetch retrieves the feed and returns its items in feed order.
// Transport failure (including timeout) surfaces as *domain.NetworkError.
// A body with no <item> blocks is a valid empty feed cycle, not a fault:
// it yields an empty slice and a nil error.
func (f *Fetcher) Fetch() ([]domain.FeedItem, error) {
	body, err := f.client.GetBody(f.feedURL)
	if err != nil {
		return nil, &domain.NetworkError{URL: f.feedURL, Err: err}
	}
	return f.Parse(body), nil
}

// Parse extracts feed items from a raw feed body. Well-formed feeds go
// through the strict parser; anything it rejects falls back to the
// permissive <item> scan, since the upstream feed is routinely truncated
// mid-element.
func (f *Fetcher) Parse(body string) []domain.FeedItem {
	if parsed, err := f.parser.ParseString(body); err == nil {
		items := make([]domain.FeedItem, 0, len(parsed.Items))
		for _, it := range parsed.Items {
			link, err := NormalizeURL(it.Link)
			if err != nil {
				continue
			}
			items = append(items, domain.FeedItem{
				Title:        strings.TrimSpace(it.Title),
				Link:         link,
				PublishedRaw: strings.TrimSpace(it.Published),
			})
		}
		return items
	}

	return scanItems(body)
}

// scanItems is the permissive fallback: find <item>...</item> blocks and
// pull title/link/pubDate out of each with first-match-wins patterns.
func scanItems(body string) []domain.FeedItem {
	blocks := itemBlockRe.FindAllString(body, -1)
	items := make([]domain.FeedItem, 0, len(blocks))

	for _, block := range blocks {
		link, err := NormalizeURL(pickField(block, "link"))
		if err != nil {
			// No resolvable link, drop the item silently.
			continue
		}
		items = append(items, domain.FeedItem{
			Title:        pickField(block, "title"),
			Link:         link,
			PublishedRaw: pickField(block, "pubDate"),
		})
	}

	return items
}

// pickField returns the first pattern match for the named field within
// an item block, or "" when neither form matches.
func pickField(block, field string) string {
	for _, re := range fieldPatterns[field] {
		if m := re.FindStringSubmatch(block); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// NormalizeURL forces the secure scheme and rewrites recognized
// equivalent hostnames to the canonical host.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &domain.ValidationError{Field: "link", Msg: "empty"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", &domain.ValidationError{Field: "link", Msg: "no host"}
	}

	u.Scheme = "https"
	host := strings.ToLower(u.Hostname())
	if canonical, ok := canonicalHosts[host]; ok {
		u.Host = canonical
	}

	return u.String(), nil
}
