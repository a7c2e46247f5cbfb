package enrich

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/linkverse/linkverse/internal/category"
)

// scriptedProvider returns canned responses, optionally blocking until
// released so tests can interleave calls.
type scriptedProvider struct {
	mu        sync.Mutex
	responses map[string]string // keyed by substring of the prompt
	gate      chan struct{}     // if non-nil, calls wait here
}

func (p *scriptedProvider) call(ctx context.Context, prompt string) (string, error) {
	p.mu.Lock()
	gate := p.gate
	p.mu.Unlock()
	if gate != nil {
		<-gate
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, resp := range p.responses {
		if strings.Contains(prompt, key) {
			return resp, nil
		}
	}
	return "", errors.New("no scripted response")
}

func TestParseMetadataStrictJSON(t *testing.T) {
	md := parseMetadata(`{"title":"org/repo","description":"A repo.","category":"development","domain":"github.com","tags":["git","code"],"favicon":"https://github.com/favicon.ico"}`)
	if md.Title != "org/repo" || md.Category != category.Development || len(md.Tags) != 2 {
		t.Errorf("unexpected metadata: %+v", md)
	}
}

func TestParseMetadataTolerantOfProse(t *testing.T) {
	md := parseMetadata("Here is the metadata you asked for:\n```json\n{\"title\":\"T\",\"category\":\"blog\"}\n```\nHope that helps!")
	if md.Title != "T" || md.Category != category.Blog {
		t.Errorf("expected embedded JSON to parse, got %+v", md)
	}
}

func TestParseMetadataGarbage(t *testing.T) {
	md := parseMetadata("I could not access that URL, sorry.")
	if md.Title != "" || md.Category != "" {
		t.Errorf("expected empty metadata, got %+v", md)
	}
}

func TestParseMetadataClampsTags(t *testing.T) {
	md := parseMetadata(`{"tags":["A","b","C","d","e","f","g"]}`)
	if len(md.Tags) != 5 {
		t.Fatalf("expected 5 tags, got %d", len(md.Tags))
	}
	if md.Tags[0] != "a" {
		t.Errorf("tags should be lower-cased, got %q", md.Tags[0])
	}
}

func TestParseMetadataUnknownCategory(t *testing.T) {
	md := parseMetadata(`{"category":"astrology"}`)
	if md.Category != category.Other {
		t.Errorf("unknown category should clamp to other, got %s", md.Category)
	}
}

func TestFinalizeFillsLocalFallbacks(t *testing.T) {
	md := Finalize("https://www.github.com/org/repo", Metadata{Title: "org/repo"})
	if md.Domain != "github.com" {
		t.Errorf("domain fallback: %q", md.Domain)
	}
	if md.Category != category.Development {
		t.Errorf("category fallback: %s", md.Category)
	}
	if md.Favicon != "https://www.google.com/s2/favicons?domain=github.com&sz=64" {
		t.Errorf("favicon fallback: %q", md.Favicon)
	}
}

func TestFinalizeKeepsProviderValues(t *testing.T) {
	in := Metadata{Domain: "example.org", Category: category.News, Favicon: "https://example.org/f.ico"}
	md := Finalize("https://other.com", in)
	if md.Domain != in.Domain || md.Category != in.Category || md.Favicon != in.Favicon {
		t.Errorf("provider values overwritten: %+v", md)
	}
}

func TestFallback(t *testing.T) {
	md := Fallback("https://dev.to/someone/post")
	if md.Domain != "dev.to" || md.Category != category.Blog || md.Favicon == "" {
		t.Errorf("fallback metadata: %+v", md)
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	p := &scriptedProvider{responses: map[string]string{
		"github.com/org/repo": `{"title":"org/repo","category":"development","tags":["git","code"]}`,
	}}
	a := &Analyzer{provider: p}

	md, err := a.Analyze(context.Background(), "https://github.com/org/repo")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if md.Title != "org/repo" || md.Category != category.Development {
		t.Errorf("metadata: %+v", md)
	}
	if md.Domain != "github.com" {
		t.Errorf("domain should be derived when provider omits it: %q", md.Domain)
	}
}

func TestAnalyzeSupersededResultIsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	p := &scriptedProvider{
		gate: gate,
		responses: map[string]string{
			"u1.example.com": `{"title":"U1"}`,
			"u2.example.com": `{"title":"U2"}`,
		},
	}
	a := &Analyzer{provider: p}

	first := make(chan error, 1)
	go func() {
		_, err := a.Analyze(context.Background(), "https://u1.example.com")
		first <- err
	}()

	// Give the first call time to reach the provider, then start the second
	// before releasing either.
	time.Sleep(20 * time.Millisecond)

	second := make(chan Metadata, 1)
	go func() {
		md, err := a.Analyze(context.Background(), "https://u2.example.com")
		if err != nil {
			t.Errorf("second analyze: %v", err)
		}
		second <- md
	}()

	time.Sleep(20 * time.Millisecond)
	close(gate)

	if err := <-first; !errors.Is(err, ErrSuperseded) {
		t.Errorf("first call should be superseded, got %v", err)
	}
	if md := <-second; md.Title != "U2" {
		t.Errorf("form state must reflect the newer input only, got %+v", md)
	}
}

func TestDebouncerCollapsesRapidTriggers(t *testing.T) {
	var mu sync.Mutex
	var runs []string

	d := NewDebouncer(20 * time.Millisecond)
	record := func(v string) func() {
		return func() {
			mu.Lock()
			runs = append(runs, v)
			mu.Unlock()
		}
	}

	d.Trigger(record("first"))
	d.Trigger(record("second"))
	d.Trigger(record("third"))

	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(runs) != 1 || runs[0] != "third" {
		t.Errorf("expected only the latest trigger to run, got %v", runs)
	}
}

func TestDebouncerCancel(t *testing.T) {
	var fired atomic.Bool

	d := NewDebouncer(20 * time.Millisecond)
	d.Trigger(func() { fired.Store(true) })
	d.Cancel()

	time.Sleep(50 * time.Millisecond)
	if fired.Load() {
		t.Error("cancelled trigger still ran")
	}
}
