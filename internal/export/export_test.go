package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/linkverse/linkverse/internal/gateway"
	"github.com/linkverse/linkverse/internal/store"
)

func sampleSnapshot() store.Snapshot {
	return store.Snapshot{
		Links: []gateway.Link{
			{ID: "l1", Title: "A", URL: "https://a.com", Category: "development", IsFavorite: true},
			{ID: "l2", Title: "B", URL: "https://b.com", Category: "development"},
			{ID: "l3", Title: "C", URL: "https://c.com", Category: "news"},
		},
		Collections: []gateway.Collection{{ID: "c1", Name: "Dev Notes"}},
		Populated:   true,
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleSnapshot())
	if s.TotalLinks != 3 || s.TotalCollections != 1 || s.Favorites != 1 {
		t.Errorf("stats: %+v", s)
	}
	if len(s.CategoriesUsed) != 2 {
		t.Errorf("expected 2 distinct categories, got %v", s.CategoriesUsed)
	}
}

func TestJSONShape(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out, err := JSON(sampleSnapshot(), now)
	if err != nil {
		t.Fatalf("json: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	for _, key := range []string{"exportDate", "stats", "links", "collections"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing %q key", key)
		}
	}
	if !strings.HasPrefix(string(out), "{\n  ") {
		t.Error("expected two-space pretty printing")
	}
	if !strings.Contains(string(out), `"exportDate": "2026-03-01T12:00:00Z"`) {
		t.Errorf("export date not rendered: %s", out)
	}
}

func TestJSONEmptySnapshotHasArrays(t *testing.T) {
	out, err := JSON(store.Snapshot{}, time.Now())
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if strings.Contains(string(out), `"links": null`) {
		t.Error("empty links should render as [], not null")
	}
}

func TestCSVHeaderAndJoinedTags(t *testing.T) {
	links := []gateway.Link{{
		Title:     "A",
		URL:       "https://a.com",
		Category:  "development",
		Tags:      []string{"go", "http"},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Collection: &gateway.CollectionRef{Name: "Dev Notes"},
	}}
	out := CSV(links)

	lines := strings.Split(out, "\n")
	if lines[0] != `"Title","URL","Description","Category","Tags","Collection","Created Date"` {
		t.Errorf("header: %s", lines[0])
	}
	if lines[1] != `"A","https://a.com","","development","go; http","Dev Notes","2026-01-02T03:04:05Z"` {
		t.Errorf("row: %s", lines[1])
	}
}

func TestCSVQuoteEscaping(t *testing.T) {
	out := CSV([]gateway.Link{{Title: `Say "Hi"`, URL: "https://a.com"}})

	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[1], `"Say ""Hi""",`) {
		t.Errorf("expected doubled quotes, got %s", lines[1])
	}

	// Round-trip through a standard CSV reader.
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("standard reader rejected export: %v", err)
	}
	if records[1][0] != `Say "Hi"` {
		t.Errorf("round trip: %q", records[1][0])
	}
}

func TestFilenames(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if JSONFilename(now) != "linkverse-export-2026-03-01.json" {
		t.Errorf("json filename: %s", JSONFilename(now))
	}
	if CSVFilename(now) != "linkverse-links-2026-03-01.csv" {
		t.Errorf("csv filename: %s", CSVFilename(now))
	}
}
