package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkverse/linkverse/internal/export"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your data to JSON or CSV",
	Long: `Export your library.

JSON includes links, collections, and summary stats. CSV is a flat
spreadsheet of links only.`,
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
		if err != nil {
			if !snap.Populated {
				return fmt.Errorf("loading data: %w", err)
			}
			fmt.Printf("  [warn] exporting cached data: %v\n", err)
		}

		now := time.Now()
		var (
			data []byte
			out  = flagExportOut
		)
		switch flagExportFormat {
		case "json":
			data, err = export.JSON(snap, now)
			if err != nil {
				return fmt.Errorf("rendering export: %w", err)
			}
			if out == "" {
				out = export.JSONFilename(now)
			}
		case "csv":
			data = []byte(export.CSV(snap.Links))
			if out == "" {
				out = export.CSVFilename(now)
			}
		default:
			return fmt.Errorf("unknown format %q (want json or csv)", flagExportFormat)
		}

		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}

		stats := export.Summarize(snap)
		fmt.Printf("Exported %d link(s), %d collection(s) to %s\n", stats.TotalLinks, stats.TotalCollections, out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagExportFormat, "format", "json", "export format: json or csv")
	exportCmd.Flags().StringVar(&flagExportOut, "out", "", "output file (defaults to a dated name in the current directory)")
}
