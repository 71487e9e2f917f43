// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scroll-convert/internal/export"
	"github.com/pdiddy/scroll-convert/internal/logging"
	"github.com/pdiddy/scroll-convert/internal/scroll"
	"github.com/pdiddy/scroll-convert/pkg/types"
)

// runConvert reads the input, builds the document, and writes it. Export
// settings are validated before the input is read, and nothing is written
// unless the whole conversion succeeds.
func runConvert(cmd *cobra.Command, cfg types.ConvertConfig) error {
	if _, err := export.Resolve(cfg.OutputPath, cfg.Export); err != nil {
		return err
	}

	data, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	logger := logging.GetLogger()
	doc, sum, err := scroll.Convert(string(data), scroll.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Info("conversion_summary",
		"rows", sum.Total(),
		"added", sum.Added,
		"replaced", sum.Replaced,
		"skipped", sum.Skipped,
		"books", sum.Books,
		"chapters", sum.Chapters,
		"verses", sum.Verses,
	)

	res, err := export.Write(doc, cfg.OutputPath, cfg.Export, export.WithSource(cfg.InputPath))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s books: %d\n", res.Path, len(doc.Books))
	if res.Checksum != "" {
		fmt.Fprintf(out, "BLAKE3 %s -> %s\n", res.Checksum, res.ChecksumPath)
	}
	return nil
}
