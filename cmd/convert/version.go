package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scroll-convert/internal/sqlitedb"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of convert",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "convert %s (sqlite: %s)\n", version, sqlitedb.DriverType())
		},
	}
}
