package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkverse/linkverse/internal/gateway"
)

var favoriteCmd = &cobra.Command{
	Use:   "favorite <link-id>",
	Short: "Toggle a link's favorite flag",
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

		link, err := e.gw.GetLink(ctx, args[0])
		if err != nil {
			if errors.Is(err, gateway.ErrNotFound) {
				return fmt.Errorf("no link with id %s", args[0])
			}
			return fmt.Errorf("loading link: %w", err)
		}

		updated, err := e.gw.ToggleFavorite(ctx, link.ID, !link.IsFavorite)
		if err != nil {
			return fmt.Errorf("updating link: %w", err)
		}
		e.store.Invalidate()

		if updated.IsFavorite {
			fmt.Printf("★ %q is now a favorite.\n", updated.Title)
		} else {
			fmt.Printf("%q is no longer a favorite.\n", updated.Title)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <link-id>",
	Short: "Delete a link",
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

		if err := e.gw.DeleteLink(ctx, args[0]); err != nil {
			if errors.Is(err, gateway.ErrNotFound) {
				return fmt.Errorf("no link with id %s", args[0])
			}
			return fmt.Errorf("deleting link: %w", err)
		}
		e.store.Invalidate()

		fmt.Println("Link deleted.")
		return nil
	},
}
