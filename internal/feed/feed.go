// Package feed imports links from RSS/Atom feeds: each feed item becomes a
// link draft ready to create through the gateway.
package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/linkverse/linkverse/internal/category"
	"github.com/linkverse/linkverse/internal/gateway"
)

const descriptionLimit = 300

// Fetch parses the feed at feedURL and maps its items to link drafts.
func Fetch(ctx context.Context, feedURL string) ([]gateway.LinkAttrs, error) {
	parsed, err := gofeed.NewParser().ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}

	drafts := make([]gateway.LinkAttrs, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = item.Link
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}
		desc = truncate(stripHTML(desc), descriptionLimit)

		drafts = append(drafts, gateway.LinkAttrs{
			URL:         item.Link,
			Title:       title,
			Description: desc,
			Category:    string(category.ForURL(item.Link)),
			Domain:      category.Domain(item.Link),
		})
	}
	return drafts, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
