package tui

import (
	"testing"

	"github.com/linkverse/linkverse/internal/gateway"
)

func sampleLinks() []gateway.Link {
	return []gateway.Link{
		{ID: "l1", Title: "Go Blog", URL: "https://go.dev/blog", CollectionID: "c1", IsFavorite: true},
		{ID: "l2", Title: "HTTP Primer", URL: "https://example.com/http", Description: "about the web", CollectionID: "c1"},
		{ID: "l3", Title: "Recipes", URL: "https://food.example.com", CollectionID: "c2"},
	}
}

func TestApplyFilterByCollection(t *testing.T) {
	got := applyFilter(sampleLinks(), "c1", false, "")
	if len(got) != 2 {
		t.Fatalf("expected 2 links in c1, got %d", len(got))
	}
	for _, l := range got {
		if l.CollectionID != "c1" {
			t.Errorf("wrong collection: %+v", l)
		}
	}
}

func TestApplyFilterFavoritesOnly(t *testing.T) {
	got := applyFilter(sampleLinks(), "", true, "")
	if len(got) != 1 || got[0].ID != "l1" {
		t.Errorf("favorites filter: %+v", got)
	}
}

func TestApplyFilterSearchMatchesTitleDescriptionURL(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"go blog", "l1"},     // title, case-insensitive
		{"about the", "l2"},   // description
		{"food.example", "l3"}, // url
	}
	for _, tt := range tests {
		got := applyFilter(sampleLinks(), "", false, tt.query)
		if len(got) != 1 || got[0].ID != tt.want {
			t.Errorf("query %q: got %+v, want single %s", tt.query, got, tt.want)
		}
	}
}

func TestApplyFilterCombines(t *testing.T) {
	got := applyFilter(sampleLinks(), "c1", true, "go")
	if len(got) != 1 || got[0].ID != "l1" {
		t.Errorf("combined filter: %+v", got)
	}
}

func TestFilterBarDeletedCollectionResets(t *testing.T) {
	f := filterBar{activeID: "gone"}
	f.setCollections([]gateway.Collection{{ID: "c1", Name: "Dev"}})
	if f.activeID != "" {
		t.Errorf("expected filter reset after collection disappeared, got %q", f.activeID)
	}
	if f.activeLabel() != "All" {
		t.Errorf("label: %q", f.activeLabel())
	}
}

func TestFilterBarToggle(t *testing.T) {
	f := filterBar{}
	f.setCollections([]gateway.Collection{{ID: "c1", Name: "Dev"}, {ID: "c2", Name: "News"}})

	f.cursor = 1
	f.toggleCurrent()
	if f.activeID != "c2" || f.activeLabel() != "News" {
		t.Errorf("after toggle: id=%q label=%q", f.activeID, f.activeLabel())
	}

	f.toggleCurrent()
	if f.activeID != "" {
		t.Errorf("second toggle should clear, got %q", f.activeID)
	}
}
