package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/linkverse/linkverse/internal/category"
	"github.com/linkverse/linkverse/internal/gateway"
)

func renderDetail(link *gateway.Link, width, height, scroll int) string {
	if link == nil {
		return lipglossCenter("Select a link", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := detailTitleStyle.Width(contentWidth).Render(link.Title)

	meta := category.Category(link.Category).Label()
	if name := link.CollectionName(); name != "" {
		meta += " · " + name
	}
	meta += " · saved " + link.CreatedAt.Format("Jan 2, 2006")
	metaLine := detailMetaStyle.Render(meta)

	desc := link.Description
	if desc == "" {
		desc = "(No description available)"
	}
	body := detailBodyStyle.Width(contentWidth).Render(wrapText(desc, contentWidth))

	var extra []string
	if len(link.Tags) > 0 {
		extra = append(extra, itemMetaStyle.Render("Tags: "+strings.Join(link.Tags, ", ")))
	}
	if link.Notes != "" {
		extra = append(extra, detailBodyStyle.Width(contentWidth).Render(wrapText("Notes: "+link.Notes, contentWidth)))
	}
	if link.LastAccessed != nil {
		extra = append(extra, itemMetaStyle.Render("Last opened "+relativeTime(*link.LastAccessed)))
	}

	linkLine := detailLinkStyle.Width(contentWidth).Render(fmt.Sprintf("Open: %s", link.URL))

	parts := []string{title, metaLine, "", body}
	if len(extra) > 0 {
		parts = append(parts, "")
		parts = append(parts, extra...)
	}
	parts = append(parts, "", linkLine)
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	// Apply scroll offset
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	// Pad to fill height
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
