// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the convert CLI, which turns a
// book/chapter/verse/text CSV file into a nested JSON, YAML, or SQLite
// document.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scroll-convert/internal/logging"
	"github.com/pdiddy/scroll-convert/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	configName = "scroll-convert"
	envPrefix  = "SCROLL_CONVERT"
)

var errUsage = errors.New("requires <input-path> and <output-path>")

// newRootCmd builds the command tree. Each call gets its own viper instance
// so flag, env, and file settings never leak between invocations.
func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "convert <input-path> <output-path>",
		Short: "Convert book/chapter/verse CSV into a nested document",
		Long: `Convert reads a delimited file whose header names Book, Chapter, Verse,
and Text columns (any order, any case) and writes the rows as a nested
document: books in first-appearance order, each with chapters and verses
sorted by number.

Rows with an empty book or a non-numeric chapter or verse are skipped.
A later row for the same book, chapter, and verse replaces the earlier text.

The output format follows the output extension (.json, .yaml/.yml,
.db/.sqlite/.sqlite3) unless --format is given. A trailing .xz compresses
the output.

A first argument that names a subcommand (search, version, help,
completion) runs that subcommand. Pass an input file with such a name
with a directory prefix, as in: convert ./search out.json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errUsage
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cmd, v); err != nil {
				return err
			}
			return initLogging(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runConvert(cmd, convertConfig(v, args))
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./scroll-convert.yaml or ~/.config/scroll-convert/scroll-convert.yaml)")
	pf.String("log-level", "warn", "diagnostic log level: debug, info, warn, or error")
	pf.String("log-format", "text", "diagnostic log format: text or json")

	f := cmd.Flags()
	f.String("format", "", "output format: json, yaml, or sqlite (default: from output extension)")
	f.String("compress", string(types.CompressAuto), "output compression: auto, none, or xz")
	f.Bool("checksum", false, "write a BLAKE3 checksum file next to the output")

	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = v.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = v.BindPFlag("export.format", f.Lookup("format"))
	_ = v.BindPFlag("export.compress", f.Lookup("compress"))
	_ = v.BindPFlag("export.checksum", f.Lookup("checksum"))

	cmd.AddCommand(newVersionCmd(), newSearchCmd())
	return cmd
}

func initConfig(cmd *cobra.Command, v *viper.Viper) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", v.ConfigFileUsed())
	return nil
}

func initLogging(cmd *cobra.Command, v *viper.Viper) error {
	level, err := logging.ParseLevel(v.GetString("log.level"))
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(v.GetString("log.format"))
	if err != nil {
		return err
	}
	logging.InitLogger(cmd.ErrOrStderr(), level, format)
	return nil
}

// convertConfig collects the resolved settings for one run.
func convertConfig(v *viper.Viper, args []string) types.ConvertConfig {
	return types.ConvertConfig{
		InputPath:  args[0],
		OutputPath: args[1],
		Export: types.ExportConfig{
			Format:   types.OutputFormat(strings.ToLower(v.GetString("export.format"))),
			Compress: types.Compression(strings.ToLower(v.GetString("export.compress"))),
			Checksum: v.GetBool("export.checksum"),
		},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
