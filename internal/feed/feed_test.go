package feed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Sample</title>
    <item>
      <title>A Post About Go</title>
      <link>https://github.com/org/repo</link>
      <description>&lt;p&gt;Some   &lt;b&gt;HTML&lt;/b&gt; description&lt;/p&gt;</description>
    </item>
    <item>
      <title></title>
      <link>https://example.com/untitled</link>
    </item>
    <item>
      <title>No Link</title>
    </item>
  </channel>
</rss>`

func TestFetchMapsItemsToDrafts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, sampleRSS)
	}))
	defer srv.Close()

	drafts, err := Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts (items without links are skipped), got %d", len(drafts))
	}

	first := drafts[0]
	if first.Title != "A Post About Go" || first.URL != "https://github.com/org/repo" {
		t.Errorf("first draft: %+v", first)
	}
	if first.Category != "development" || first.Domain != "github.com" {
		t.Errorf("expected domain-table categorization, got %+v", first)
	}
	if strings.Contains(first.Description, "<") {
		t.Errorf("html not stripped: %q", first.Description)
	}

	if drafts[1].Title != "https://example.com/untitled" {
		t.Errorf("untitled items should fall back to the URL, got %q", drafts[1].Title)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 400)
	got := truncate(long, 300)
	if len([]rune(got)) != 300 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate: len=%d suffix=%q", len([]rune(got)), got[len(got)-3:])
	}
	if truncate("short", 300) != "short" {
		t.Error("short strings must pass through")
	}
}
