package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkverse/linkverse/internal/bulk"
)

var flagWipeYes bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete ALL links and collections",
	Long: `Permanently delete every link and collection in your account.

This cannot be undone. Without --yes you will be asked to type DELETE to
confirm.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.requireAuth(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		snap, err := e.store.Snapshot(ctx)
		if err != nil && !snap.Populated {
			return fmt.Errorf("loading data: %w", err)
		}

		total := len(snap.Links) + len(snap.Collections)
		if total == 0 {
			fmt.Println("Nothing to delete.")
			return nil
		}

		if !flagWipeYes {
			fmt.Printf("This permanently deletes %d link(s) and %d collection(s).\n", len(snap.Links), len(snap.Collections))
			fmt.Print("Type DELETE to confirm: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil || strings.TrimSpace(line) != "DELETE" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		report := bulk.Wipe(ctx, e.gw, snap.Links, snap.Collections)

		// The offline snapshot must not resurrect wiped data
		if err := e.cache.Clear(); err != nil {
			e.log.WithError(err).Warn("could not clear offline cache")
		}
		e.store.Invalidate()

		fmt.Println(report.Summary())
		for _, err := range report.Errors {
			fmt.Printf("  [warn] %v\n", err)
		}
		if report.Failed() > 0 {
			return fmt.Errorf("%d deletion(s) failed", report.Failed())
		}
		return nil
	},
}

func init() {
	wipeCmd.Flags().BoolVar(&flagWipeYes, "yes", false, "skip the confirmation prompt")
}
