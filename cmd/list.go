package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkverse/linkverse/internal/category"
	"github.com/linkverse/linkverse/internal/gateway"
)

var (
	flagListCollection string
	flagListCategory   string
	flagListFavorites  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved links",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList("")
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search links by title, description, or URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(args[0])
	},
}

func runList(query string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.requireAuth(); err != nil {
		return err
	}

	if flagListCategory != "" && !category.Valid(flagListCategory) {
		return fmt.Errorf("unknown category %q", flagListCategory)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		if !snap.Populated {
			return fmt.Errorf("loading links: %w", err)
		}
		fmt.Printf("  [warn] showing cached data: %v\n", err)
	}

	links := snap.Links
	if flagListCollection != "" {
		col, err := resolveCollection(ctx, e, flagListCollection)
		if err != nil {
			return err
		}
		links = filterLinks(links, func(l gateway.Link) bool { return l.CollectionID == col.ID })
	}
	if flagListCategory != "" {
		want := string(category.Normalize(flagListCategory))
		links = filterLinks(links, func(l gateway.Link) bool { return l.Category == want })
	}
	if flagListFavorites {
		links = filterLinks(links, func(l gateway.Link) bool { return l.IsFavorite })
	}
	if query != "" {
		q := strings.ToLower(query)
		links = filterLinks(links, func(l gateway.Link) bool {
			return strings.Contains(strings.ToLower(l.Title), q) ||
				strings.Contains(strings.ToLower(l.Description), q) ||
				strings.Contains(strings.ToLower(l.URL), q)
		})
	}

	if len(links) == 0 {
		fmt.Println("No links found.")
		return nil
	}

	for _, l := range links {
		printLink(l)
	}
	fmt.Printf("\n%d link(s)\n", len(links))
	return nil
}

func filterLinks(links []gateway.Link, keep func(gateway.Link) bool) []gateway.Link {
	out := links[:0:0]
	for _, l := range links {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

func printLink(l gateway.Link) {
	star := " "
	if l.IsFavorite {
		star = "★"
	}
	fmt.Printf("%s %s  %s\n", star, l.ID, l.Title)

	meta := category.Category(l.Category).Label()
	if name := l.CollectionName(); name != "" {
		meta += " · " + name
	}
	if len(l.Tags) > 0 {
		meta += " · " + strings.Join(l.Tags, ", ")
	}
	fmt.Printf("    %s\n    %s\n", l.URL, meta)
}

func init() {
	for _, c := range []*cobra.Command{listCmd, searchCmd} {
		c.Flags().StringVar(&flagListCollection, "collection", "", "filter by collection name")
		c.Flags().StringVar(&flagListCategory, "category", "", "filter by category tag")
		c.Flags().BoolVar(&flagListFavorites, "favorites", false, "favorites only")
	}
}
