package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkverse/linkverse/internal/export"
	"github.com/linkverse/linkverse/internal/gateway"
)

var flagProfileName string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile and library stats",
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
			return fmt.Errorf("loading profile: %w", err)
		}

		if snap.Profile != nil {
			p := snap.Profile
			name := p.FullName
			if name == "" {
				name = p.Email
			}
			fmt.Printf("%s\n", name)
			if p.Email != "" && p.Email != name {
				fmt.Printf("Email: %s\n", p.Email)
			}
			fmt.Printf("Member since %s\n", p.CreatedAt.Format("Jan 2, 2006"))
		} else if e.session.Email != "" {
			fmt.Println(e.session.Email)
		}

		stats := export.Summarize(snap)
		fmt.Printf("\nLinks: %d (%d favorites)\n", stats.TotalLinks, stats.Favorites)
		fmt.Printf("Collections: %d\n", stats.TotalCollections)
		fmt.Printf("Categories in use: %d\n", len(stats.CategoriesUsed))
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagProfileName == "" {
			return fmt.Errorf("nothing to update; pass --name")
		}

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

		p, err := e.gw.UpdateProfile(ctx, gateway.ProfileAttrs{FullName: flagProfileName})
		if err != nil {
			return fmt.Errorf("updating profile: %w", err)
		}
		e.store.Invalidate()

		fmt.Printf("Profile updated: %s\n", p.FullName)
		return nil
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&flagProfileName, "name", "", "full name")
	profileCmd.AddCommand(profileSetCmd)
}
