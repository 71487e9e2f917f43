// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging provides structured diagnostic logging using log/slog.
// Output goes to stderr; stdout is reserved for command results.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

var defaultLogger *slog.Logger

func init() {
	InitLogger(os.Stderr, LevelWarn, FormatText)
}

// Level represents a log level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Format represents a log output format.
type Format int

const (
	// FormatText outputs logs in human-readable key=value form.
	FormatText Format = iota
	// FormatJSON outputs one JSON object per line.
	FormatJSON
)

// ParseLevel maps a config string to a Level. An empty string means warn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "", "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelWarn, fmt.Errorf("unknown log level %q (want debug, info, warn, or error)", s)
}

// ParseFormat maps a config string to a Format. An empty string means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q (want text or json)", s)
}

// New builds a logger writing to w at the given level and format.
func New(w io.Writer, level Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level.slog(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// InitLogger replaces the package logger and the slog default.
func InitLogger(w io.Writer, level Level, format Format) {
	defaultLogger = New(w, level, format)
	slog.SetDefault(defaultLogger)
}

// GetLogger returns the package logger.
func GetLogger() *slog.Logger {
	return defaultLogger
}

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// RowSkipped logs a data row dropped by the hierarchy builder.
func RowSkipped(logger *slog.Logger, row int, reason string, args ...any) {
	allArgs := []any{
		"row", row,
		"reason", reason,
	}
	allArgs = append(allArgs, args...)
	logger.Debug("row_skipped", allArgs...)
}

// VerseReplaced logs a verse whose text was overwritten by a later row.
func VerseReplaced(logger *slog.Logger, row int, book string, chapter, verse float64) {
	logger.Debug("verse_replaced",
		"row", row,
		"book", book,
		"chapter", chapter,
		"verse", verse,
	)
}

// OutputWritten logs the final artifact of a conversion.
func OutputWritten(path, format string, bytes int64, args ...any) {
	allArgs := []any{
		"path", path,
		"format", format,
		"bytes", bytes,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("output_written", allArgs...)
}
