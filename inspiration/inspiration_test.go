package inspiration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html><body>
  <img src="https://cdn.example.com/a.jpg">
  <img src="https://cdn.example.com/b.jpg" alt="look">
  <img src="/relative/skip.jpg">
  <img src="data:image/png;base64,AAAA">
  <img alt="no src at all">
  <img src="https://cdn.example.com/a.jpg">
  <img src="https://cdn.example.com/c.jpg">
</body></html>`

func TestExtractImageURLs(t *testing.T) {
	urls, err := ExtractImageURLs(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("ExtractImageURLs failed: %v", err)
	}

	want := []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
		"https://cdn.example.com/c.jpg",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls %v, want %d", len(urls), urls, len(want))
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestExtractImageURLsCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 20; i++ {
		b.WriteString(`<img src="https://cdn.example.com/`)
		b.WriteByte(byte('a' + i))
		b.WriteString(`.jpg">`)
	}
	b.WriteString("</body></html>")

	urls, err := ExtractImageURLs(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != maxTrendImages {
		t.Errorf("got %d urls, want cap of %d", len(urls), maxTrendImages)
	}
}

func TestTrendImagesEmptySourceFallsBack(t *testing.T) {
	f := NewFeed("")
	urls := f.TrendImages(context.Background())
	if len(urls) != len(fallbackImages) {
		t.Fatalf("got %d urls, want the fallback set", len(urls))
	}
}

func TestTrendImagesFetches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewFeed(srv.URL)
	urls := f.TrendImages(context.Background())
	if len(urls) != 3 {
		t.Fatalf("got %v, want the 3 absolute image urls", urls)
	}
	if urls[0] != "https://cdn.example.com/a.jpg" {
		t.Errorf("urls[0] = %q", urls[0])
	}
}

func TestTrendImagesServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFeed(srv.URL)
	urls := f.TrendImages(context.Background())
	if len(urls) != len(fallbackImages) || urls[0] != fallbackImages[0] {
		t.Errorf("got %v, want the fallback set", urls)
	}
}

func TestTrendImagesEmptyPageFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>no images here</p></body></html>"))
	}))
	defer srv.Close()

	f := NewFeed(srv.URL)
	urls := f.TrendImages(context.Background())
	if len(urls) != len(fallbackImages) {
		t.Errorf("got %v, want the fallback set", urls)
	}
}
