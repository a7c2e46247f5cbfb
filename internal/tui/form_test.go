package tui

import (
	"reflect"
	"testing"

	"github.com/linkverse/linkverse/internal/enrich"
	"github.com/linkverse/linkverse/internal/gateway"
)

func TestSplitTags(t *testing.T) {
	got := splitTags("Go,  HTTP , ,tutorial")
	want := []string{"go", "http", "tutorial"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitTags = %v, want %v", got, want)
	}
	if splitTags("") != nil {
		t.Error("empty input should yield no tags")
	}
}

func TestFormAttrsRequiresURL(t *testing.T) {
	f := newAddForm()
	if _, err := f.attrs(nil); err == nil {
		t.Error("expected error for empty URL")
	}
}

func TestFormAttrsSchemePrefixAndFallback(t *testing.T) {
	f := newAddForm()
	f.inputs[fieldURL].SetValue("github.com/golang/go")

	attrs, err := f.attrs(nil)
	if err != nil {
		t.Fatalf("attrs: %v", err)
	}
	if attrs.URL != "https://github.com/golang/go" {
		t.Errorf("scheme not prefixed: %q", attrs.URL)
	}
	if attrs.Category != "development" || attrs.Domain != "github.com" {
		t.Errorf("fallback metadata not applied: %+v", attrs)
	}
}

func TestFormAttrsUnknownCollection(t *testing.T) {
	f := newAddForm()
	f.inputs[fieldURL].SetValue("https://example.com")
	f.inputs[fieldCollection].SetValue("Nope")

	if _, err := f.attrs([]gateway.Collection{{ID: "c1", Name: "Dev"}}); err == nil {
		t.Error("expected error for unknown collection name")
	}
}

func TestFormAttrsResolvesCollectionCaseInsensitive(t *testing.T) {
	f := newAddForm()
	f.inputs[fieldURL].SetValue("https://example.com")
	f.inputs[fieldCollection].SetValue("dev notes")

	attrs, err := f.attrs([]gateway.Collection{{ID: "c1", Name: "Dev Notes"}})
	if err != nil {
		t.Fatalf("attrs: %v", err)
	}
	if attrs.CollectionID == nil || *attrs.CollectionID != "c1" {
		t.Errorf("collection not resolved: %+v", attrs.CollectionID)
	}
}

func TestApplyMetadataNeverOverwritesTypedValues(t *testing.T) {
	f := newAddForm()
	f.inputs[fieldTitle].SetValue("My Title")
	f.inputs[fieldCollection].SetValue("Reading List")

	f.applyMetadata(enrich.Metadata{
		Title:    "Analyzed Title",
		Category: "development",
		Tags:     []string{"go"},
	}, []gateway.Collection{{ID: "c1", Name: "Dev Notes"}})

	if f.inputs[fieldTitle].Value() != "My Title" {
		t.Errorf("typed title overwritten: %q", f.inputs[fieldTitle].Value())
	}
	if f.inputs[fieldCollection].Value() != "Reading List" {
		t.Errorf("typed collection overwritten: %q", f.inputs[fieldCollection].Value())
	}
	if f.inputs[fieldTags].Value() != "go" {
		t.Errorf("empty tags should be prefilled, got %q", f.inputs[fieldTags].Value())
	}
}

func TestApplyMetadataSuggestsCollection(t *testing.T) {
	f := newAddForm()
	f.applyMetadata(enrich.Metadata{
		Title:    "Repo",
		Category: "development",
	}, []gateway.Collection{{ID: "c1", Name: "Dev Notes"}})

	if f.inputs[fieldCollection].Value() != "Dev Notes" {
		t.Errorf("expected suggested collection, got %q", f.inputs[fieldCollection].Value())
	}
}
