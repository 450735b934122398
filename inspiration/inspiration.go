// Package inspiration backs the search view's trend feed: representative
// fashion imagery scraped from a configurable source page, with a static
// fallback so the view is never empty.
package inspiration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const maxTrendImages = 8

// The original search view's images, shown whenever the live fetch fails.
var fallbackImages = []string{
	"https://images.unsplash.com/photo-1434389677669-e08b4cac3105?q=80&w=400",
	"https://images.unsplash.com/photo-1523381235312-3f113d27dea6?q=80&w=400",
	"https://images.unsplash.com/photo-1488161628813-04466f872be2?q=80&w=400",
	"https://images.unsplash.com/photo-1519033007971-f24b0f3290f3?q=80&w=400",
}

// Feed fetches trend images from a fashion page.
type Feed struct {
	client    *http.Client
	sourceURL string
}

// NewFeed returns a feed for the given source page. An empty URL produces a
// feed that always serves the fallback set.
func NewFeed(sourceURL string) *Feed {
	return &Feed{
		client:    &http.Client{Timeout: 15 * time.Second},
		sourceURL: sourceURL,
	}
}

// TrendImages returns up to maxTrendImages image URLs for the search view.
// Never fails: any fetch or parse problem falls back to the static set.
func (f *Feed) TrendImages(ctx context.Context) []string {
	if f.sourceURL == "" {
		return fallbackImages
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.sourceURL, nil)
	if err != nil {
		return fallbackImages
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := f.client.Do(req)
	if err != nil {
		return fallbackImages
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fallbackImages
	}

	urls, err := ExtractImageURLs(resp.Body)
	if err != nil || len(urls) == 0 {
		return fallbackImages
	}
	return urls
}

// ExtractImageURLs pulls absolute image URLs out of an HTML document,
// deduplicated in document order.
func ExtractImageURLs(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	seen := make(map[string]bool)
	var urls []string
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, ok := s.Attr("src")
		if !ok || !strings.HasPrefix(src, "http") || seen[src] {
			return true
		}
		seen[src] = true
		urls = append(urls, src)
		return len(urls) < maxTrendImages
	})
	return urls, nil
}
