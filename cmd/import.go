package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkverse/linkverse/internal/feed"
)

var (
	flagImportCollection string
	flagImportLimit      int
)

var importCmd = &cobra.Command{
	Use:   "import <feed-url>",
	Short: "Import links from an RSS/Atom feed",
	Long:  "Fetch a feed and save each entry as a link. Entries are categorized by domain; no LLM analysis is performed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.requireAuth(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		fmt.Println("Fetching feed...")
		drafts, err := feed.Fetch(ctx, args[0])
		if err != nil {
			return err
		}
		if flagImportLimit > 0 && len(drafts) > flagImportLimit {
			drafts = drafts[:flagImportLimit]
		}
		if len(drafts) == 0 {
			fmt.Println("Feed has no importable entries.")
			return nil
		}

		var collectionID *string
		if flagImportCollection != "" {
			col, err := resolveCollection(ctx, e, flagImportCollection)
			if err != nil {
				return err
			}
			collectionID = &col.ID
		}

		saved := 0
		for _, draft := range drafts {
			draft.CollectionID = collectionID
			if _, err := e.gw.CreateLink(ctx, draft); err != nil {
				fmt.Printf("  [warn] %s: %v\n", draft.URL, err)
				continue
			}
			saved++
		}
		e.store.Invalidate()

		fmt.Printf("Imported %d of %d entries.\n", saved, len(drafts))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&flagImportCollection, "collection", "", "save imported links into this collection")
	importCmd.Flags().IntVar(&flagImportLimit, "limit", 0, "import at most N entries (0 = all)")
}
