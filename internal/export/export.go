// Package export renders the user's data as JSON or CSV, byte-compatible
// with the exports the web client produced.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/linkverse/linkverse/internal/gateway"
	"github.com/linkverse/linkverse/internal/store"
)

// Stats summarizes a snapshot for the export header and the profile screen.
type Stats struct {
	TotalLinks       int      `json:"totalLinks"`
	TotalCollections int      `json:"totalCollections"`
	Favorites        int      `json:"favorites"`
	CategoriesUsed   []string `json:"categoriesUsed"`
}

// Summarize computes stats over a snapshot.
func Summarize(snap store.Snapshot) Stats {
	s := Stats{
		TotalLinks:       len(snap.Links),
		TotalCollections: len(snap.Collections),
		CategoriesUsed:   []string{},
	}
	seen := map[string]bool{}
	for _, l := range snap.Links {
		if l.IsFavorite {
			s.Favorites++
		}
		if l.Category != "" && !seen[l.Category] {
			seen[l.Category] = true
			s.CategoriesUsed = append(s.CategoriesUsed, l.Category)
		}
	}
	return s
}

type document struct {
	ExportDate  string               `json:"exportDate"`
	Stats       Stats                `json:"stats"`
	Links       []gateway.Link       `json:"links"`
	Collections []gateway.Collection `json:"collections"`
}

// JSON renders the full export document, pretty-printed with two-space
// indentation.
func JSON(snap store.Snapshot, now time.Time) ([]byte, error) {
	doc := document{
		ExportDate:  now.UTC().Format(time.RFC3339),
		Stats:       Summarize(snap),
		Links:       snap.Links,
		Collections: snap.Collections,
	}
	if doc.Links == nil {
		doc.Links = []gateway.Link{}
	}
	if doc.Collections == nil {
		doc.Collections = []gateway.Collection{}
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return out, nil
}

var csvHeaders = []string{"Title", "URL", "Description", "Category", "Tags", "Collection", "Created Date"}

// CSV renders the links as CSV. Every field is double-quoted (with `""`
// escaping) regardless of content — that is the format the original exporter
// emitted, so encoding/csv's quote-when-needed output would not round-trip
// byte-identically.
func CSV(links []gateway.Link) string {
	rows := make([][]string, 0, len(links)+1)
	rows = append(rows, csvHeaders)
	for _, l := range links {
		created := ""
		if !l.CreatedAt.IsZero() {
			created = l.CreatedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{
			l.Title,
			l.URL,
			l.Description,
			l.Category,
			strings.Join(l.Tags, "; "),
			l.CollectionName(),
			created,
		})
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		quoted := make([]string, len(row))
		for j, field := range row {
			quoted[j] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}
		lines[i] = strings.Join(quoted, ",")
	}
	return strings.Join(lines, "\n")
}

// JSONFilename returns the dated default export filename.
func JSONFilename(now time.Time) string {
	return fmt.Sprintf("linkverse-export-%s.json", now.Format("2006-01-02"))
}

// CSVFilename returns the dated default CSV filename.
func CSVFilename(now time.Time) string {
	return fmt.Sprintf("linkverse-links-%s.csv", now.Format("2006-01-02"))
}
