package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkverse/linkverse/internal/enrich"
	"github.com/linkverse/linkverse/internal/gateway"
)

var (
	flagAddTitle      string
	flagAddCollection string
	flagAddTags       string
	flagAddFavorite   bool
	flagAddNoAnalyze  bool
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Save a link",
	Long: `Save a URL into your library.

Unless --no-analyze is set and an enrichment provider is configured, the URL
is analyzed to fill in the title, description, category, and tags. Values you
pass explicitly always win.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.requireAuth(); err != nil {
			return err
		}

		rawURL := args[0]
		if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
			rawURL = "https://" + rawURL
		}

		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()

		md := enrich.Fallback(rawURL)
		if !flagAddNoAnalyze {
			if a := e.analyzer(); a != nil {
				fmt.Println("Analyzing URL...")
				analyzed, err := a.Analyze(ctx, rawURL)
				if err != nil {
					fmt.Printf("  [warn] analysis failed, using defaults: %v\n", err)
				} else {
					md = enrich.Finalize(rawURL, analyzed)
				}
			}
		}

		title := flagAddTitle
		if title == "" {
			title = md.Title
		}
		if title == "" {
			title = rawURL
		}

		tags := splitTags(flagAddTags)
		if len(tags) == 0 {
			tags = md.Tags
		}

		attrs := gateway.LinkAttrs{
			URL:         rawURL,
			Title:       title,
			Description: md.Description,
			Category:    string(md.Category),
			Tags:        tags,
			Domain:      md.Domain,
			Favicon:     md.Favicon,
		}
		if flagAddFavorite {
			fav := true
			attrs.IsFavorite = &fav
		}

		if flagAddCollection != "" {
			col, err := resolveCollection(ctx, e, flagAddCollection)
			if err != nil {
				return err
			}
			attrs.CollectionID = &col.ID
		}

		link, err := e.gw.CreateLink(ctx, attrs)
		if err != nil {
			return fmt.Errorf("saving link: %w", err)
		}
		e.store.Invalidate()

		fmt.Printf("Saved %q (%s)\n", link.Title, link.Category)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&flagAddTitle, "title", "", "title (overrides analyzed title)")
	addCmd.Flags().StringVar(&flagAddCollection, "collection", "", "collection name")
	addCmd.Flags().StringVar(&flagAddTags, "tags", "", "comma-separated tags")
	addCmd.Flags().BoolVar(&flagAddFavorite, "favorite", false, "mark as favorite")
	addCmd.Flags().BoolVar(&flagAddNoAnalyze, "no-analyze", false, "skip URL analysis")
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// resolveCollection matches a collection by name, case-insensitively.
func resolveCollection(ctx context.Context, e *env, name string) (gateway.Collection, error) {
	cols, err := e.store.Collections(ctx)
	if err != nil && len(cols) == 0 {
		return gateway.Collection{}, fmt.Errorf("loading collections: %w", err)
	}
	for _, c := range cols {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return gateway.Collection{}, fmt.Errorf("no collection named %q", name)
}
