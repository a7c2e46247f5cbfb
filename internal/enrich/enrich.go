// Package enrich extracts best-effort metadata (title, description, category,
// tags, favicon) for a URL via an LLM provider, with local fallbacks for
// everything the provider omits.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/linkverse/linkverse/internal/category"
	"github.com/linkverse/linkverse/internal/config"
)

// ErrSuperseded means a newer analyze call started before this one finished;
// the result must be discarded so it can never overwrite fresher input.
var ErrSuperseded = errors.New("analysis superseded by newer input")

const maxTags = 5

// Metadata is the best-effort result of analyzing a URL. Any field may be
// empty; callers fall back to user-entered values.
type Metadata struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    category.Category `json:"category"`
	Domain      string            `json:"domain"`
	Tags        []string          `json:"tags"`
	Favicon     string            `json:"favicon"`
}

type provider interface {
	call(ctx context.Context, prompt string) (string, error)
}

// Analyzer wraps a provider and enforces latest-wins semantics across calls.
type Analyzer struct {
	provider provider
	seq      atomic.Uint64
}

// New creates an Analyzer from the enrichment config, or an error when no
// provider is usable.
func New(cfg *config.Enrichment, apiKey string) (*Analyzer, error) {
	if cfg == nil || apiKey == "" {
		return nil, fmt.Errorf("enrichment not configured")
	}

	client := &http.Client{Timeout: 30 * time.Second}

	switch cfg.Provider {
	case "claude", "":
		model := cfg.Model
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		return &Analyzer{provider: &claudeProvider{apiKey: apiKey, model: model, client: client}}, nil
	case "openai":
		model := cfg.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return &Analyzer{provider: &openaiProvider{apiKey: apiKey, model: model, client: client}}, nil
	default:
		return nil, fmt.Errorf("unknown enrichment provider: %q (valid: claude, openai)", cfg.Provider)
	}
}

const analyzePrompt = `Analyze this URL and extract metadata: %s

Provide:
1. Page title
2. Brief description (1-2 sentences)
3. Best category from: social_media, video, development, news, shopping, education, productivity, design, business, entertainment, research, documentation, portfolio, blog, other
4. Domain name
5. Suggested tags (3-5 relevant tags)
6. Favicon URL (if possible)

Respond with ONLY a JSON object shaped like:
{"title": "", "description": "", "category": "", "domain": "", "tags": [], "favicon": ""}

Focus on accuracy and relevance. Be concise but informative.`

// Analyze runs the provider and returns finalized metadata. If another
// Analyze started on this Analyzer before the provider returned, the result
// is dropped and ErrSuperseded is returned.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (Metadata, error) {
	token := a.seq.Add(1)

	text, err := a.provider.call(ctx, fmt.Sprintf(analyzePrompt, rawURL))
	if a.seq.Load() != token {
		return Metadata{}, ErrSuperseded
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("analyzing %s: %w", rawURL, err)
	}

	md := parseMetadata(text)
	return Finalize(rawURL, md), nil
}

// parseMetadata decodes the provider response, tolerating prose around the
// JSON object.
func parseMetadata(text string) Metadata {
	var raw struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Domain      string   `json:"domain"`
		Tags        []string `json:"tags"`
		Favicon     string   `json:"favicon"`
	}

	payload := strings.TrimSpace(text)
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		start := strings.Index(payload, "{")
		end := strings.LastIndex(payload, "}")
		if start < 0 || end <= start {
			return Metadata{}
		}
		if err := json.Unmarshal([]byte(payload[start:end+1]), &raw); err != nil {
			return Metadata{}
		}
	}

	md := Metadata{
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Domain:      strings.TrimSpace(raw.Domain),
		Favicon:     strings.TrimSpace(raw.Favicon),
	}
	if raw.Category != "" {
		md.Category = category.Normalize(raw.Category)
	}
	for _, t := range raw.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		md.Tags = append(md.Tags, t)
		if len(md.Tags) == maxTags {
			break
		}
	}
	return md
}

// Finalize fills whatever the provider omitted from the URL itself: domain,
// domain-table category and the favicon service URL.
func Finalize(rawURL string, md Metadata) Metadata {
	if md.Domain == "" {
		md.Domain = category.Domain(rawURL)
	}
	if md.Category == "" {
		md.Category = category.ForURL(rawURL)
	}
	if md.Favicon == "" && md.Domain != "" {
		md.Favicon = fmt.Sprintf("https://www.google.com/s2/favicons?domain=%s&sz=64", md.Domain)
	}
	return md
}

// Fallback builds purely local metadata for when enrichment is disabled or
// the provider fails.
func Fallback(rawURL string) Metadata {
	return Finalize(rawURL, Metadata{})
}
