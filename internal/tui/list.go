package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/linkverse/linkverse/internal/category"
	"github.com/linkverse/linkverse/internal/gateway"
)

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func renderListItem(l gateway.Link, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	star := "  "
	if l.IsFavorite {
		star = itemStarStyle.Render("★ ")
	}

	var title string
	if selected {
		title = itemSelectedStyle.Render("> "+truncateStr(l.Title, width-6)) + " " + star
	} else {
		title = itemTitleStyle.Render("  "+truncateStr(l.Title, width-6)) + " " + star
	}

	meta := "  " + itemCategoryStyle.Render(category.Category(l.Category).Label())
	if l.Domain != "" {
		meta += " " + itemMetaStyle.Render("· "+l.Domain)
	}
	meta += " " + itemMetaStyle.Render("· "+relativeTime(l.CreatedAt))

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func renderList(links []gateway.Link, cursor int, height int, width int, emptyHint string) string {
	if len(links) == 0 {
		return lipglossCenter(emptyHint, width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(links) {
		end = len(links)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(links[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
