package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(linkCount int, filterLabel string, favoritesOnly bool, width int, searching bool, refreshing bool) string {
	left := fmt.Sprintf(" %d links", linkCount)
	if filterLabel != "All" {
		left += " · " + filterLabel
	}
	if favoritesOnly {
		left += " · " + itemStarStyle.Render("favorites")
	}

	right := " a add  / search  f favorite  c collections  q quit "
	if searching {
		right = " esc cancel  enter search "
	}
	if refreshing {
		left += " (refreshing...)"
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
