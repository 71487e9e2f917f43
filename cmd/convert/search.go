// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scroll-convert/internal/export"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <database> <query>",
		Short: "Full-text search over verses in a SQLite export",
		Long: `Search queries the verse index of a database written by convert with a
.db, .sqlite, or .sqlite3 output. Queries use SQLite FTS5 syntax when the
index is available and substring matching otherwise.

The database is opened read-only. Files that are not convert exports are
rejected and left unchanged.`,
		Args: cobra.ExactArgs(2),
		RunE: runSearch,
	}
	cmd.Flags().Int("limit", 20, "maximum number of verses to print")
	cmd.Flags().Bool("json", false, "output results as JSON")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	dbPath, query := args[0], args[1]

	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	store, err := export.OpenStoreReadOnly(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	hits, err := store.Search(context.Background(), query, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if hits == nil {
			hits = []export.VerseHit{}
		}
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	for _, h := range hits {
		fmt.Fprintf(out, "%s %s:%s  %s\n", h.Book, formatNumber(h.Chapter), formatNumber(h.Verse), h.Text)
	}
	return nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
