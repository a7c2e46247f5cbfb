package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkverse/linkverse/internal/gateway"
)

var (
	flagColDescription string
	flagColColor       string
	flagColIcon        string
	flagColPrivate     bool
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Manage collections",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.requireAuth(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		snap, err := e.store.Snapshot(ctx)
		if err != nil && !snap.Populated {
			return fmt.Errorf("loading collections: %w", err)
		}

		if len(snap.Collections) == 0 {
			fmt.Println("No collections yet.")
			return nil
		}

		counts := make(map[string]int)
		for _, l := range snap.Links {
			counts[l.CollectionID]++
		}
		for _, c := range snap.Collections {
			private := ""
			if c.IsPrivate {
				private = " (private)"
			}
			fmt.Printf("%s  %s%s — %d link(s)\n", c.ID, c.Name, private, counts[c.ID])
		}
		return nil
	},
}

var collectionsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		color := flagColColor
		if color == "" {
			// Cycle the default palette by how many collections already exist
			cols, _ := e.store.Collections(ctx)
			color = gateway.DefaultCollectionColors[len(cols)%len(gateway.DefaultCollectionColors)]
		}

		attrs := gateway.CollectionAttrs{
			Name:        args[0],
			Description: flagColDescription,
			Color:       color,
			Icon:        flagColIcon,
		}
		if flagColPrivate {
			private := true
			attrs.IsPrivate = &private
		}

		col, err := e.gw.CreateCollection(ctx, attrs)
		if err != nil {
			return fmt.Errorf("creating collection: %w", err)
		}
		e.store.Invalidate()

		fmt.Printf("Created collection %q (%s)\n", col.Name, col.ID)
		return nil
	},
}

var collectionsDeleteCmd = &cobra.Command{
	Use:   "delete <name-or-id>",
	Short: "Delete a collection (links in it are kept, uncategorized)",
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		id := args[0]
		if col, err := resolveCollection(ctx, e, args[0]); err == nil {
			id = col.ID
		}

		if err := e.gw.DeleteCollection(ctx, id); err != nil {
			return fmt.Errorf("deleting collection: %w", err)
		}
		e.store.Invalidate()

		fmt.Println("Collection deleted.")
		return nil
	},
}

func init() {
	collectionsCreateCmd.Flags().StringVar(&flagColDescription, "description", "", "collection description")
	collectionsCreateCmd.Flags().StringVar(&flagColColor, "color", "", "hex color (defaults to the next palette color)")
	collectionsCreateCmd.Flags().StringVar(&flagColIcon, "icon", "", "icon name")
	collectionsCreateCmd.Flags().BoolVar(&flagColPrivate, "private", false, "mark the collection private")

	collectionsCmd.AddCommand(collectionsCreateCmd)
	collectionsCmd.AddCommand(collectionsDeleteCmd)
}
