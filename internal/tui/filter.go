package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/linkverse/linkverse/internal/gateway"
)

// filterBar narrows the list by collection. One collection can be active at a
// time; favorites-only is a separate toggle handled by the app.
type filterBar struct {
	collections []gateway.Collection
	activeID    string
	filterMode  bool
	cursor      int
}

func (f *filterBar) setCollections(cols []gateway.Collection) {
	f.collections = cols
	if f.cursor >= len(cols) {
		f.cursor = 0
	}
	// A deleted collection stops filtering
	if f.activeID != "" && f.find(f.activeID) == nil {
		f.activeID = ""
	}
}

func (f *filterBar) find(id string) *gateway.Collection {
	for i := range f.collections {
		if f.collections[i].ID == id {
			return &f.collections[i]
		}
	}
	return nil
}

func (f *filterBar) toggleCurrent() {
	if f.cursor >= len(f.collections) {
		return
	}
	id := f.collections[f.cursor].ID
	if f.activeID == id {
		f.activeID = ""
	} else {
		f.activeID = id
	}
}

func (f *filterBar) activeLabel() string {
	if c := f.find(f.activeID); c != nil {
		return c.Name
	}
	return "All"
}

func (f *filterBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string

	if f.activeID == "" {
		parts = append(parts, tabActiveStyle.Render("All"))
	} else {
		parts = append(parts, tabInactiveStyle.Render("All"))
	}

	for i, c := range f.collections {
		style := tabInactiveStyle
		if f.activeID == c.ID {
			style = tabActiveStyle
		}
		label := c.Name
		if f.filterMode && i == f.cursor {
			label = "[" + c.Name + "]"
		}
		parts = append(parts, style.Render(label))
	}

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}

// applyFilter narrows links by collection, favorites, and search query. Search
// matches title, description, and URL case-insensitively, same as the remote
// search filter.
func applyFilter(links []gateway.Link, collectionID string, favoritesOnly bool, query string) []gateway.Link {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]gateway.Link, 0, len(links))
	for _, l := range links {
		if collectionID != "" && l.CollectionID != collectionID {
			continue
		}
		if favoritesOnly && !l.IsFavorite {
			continue
		}
		if query != "" && !matchesQuery(l, query) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchesQuery(l gateway.Link, query string) bool {
	return strings.Contains(strings.ToLower(l.Title), query) ||
		strings.Contains(strings.ToLower(l.Description), query) ||
		strings.Contains(strings.ToLower(l.URL), query)
}
