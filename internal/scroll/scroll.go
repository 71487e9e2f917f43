// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scroll converts book/chapter/verse/text CSV into a nested
// Document. The first non-empty line is the header; every later line is a
// data row. Malformed data rows are dropped silently and never fail the
// conversion.
package scroll

import (
	"log/slog"

	"github.com/pdiddy/scroll-convert/internal/csvline"
	"github.com/pdiddy/scroll-convert/internal/logging"
	"github.com/pdiddy/scroll-convert/pkg/types"
)

// Summary holds the row accounting for one conversion.
type Summary struct {
	Added    int
	Replaced int
	Skipped  int

	Books    int
	Chapters int
	Verses   int
}

// Total returns the number of data rows read.
func (s Summary) Total() int {
	return s.Added + s.Replaced + s.Skipped
}

// HasSkips reports whether any data row was dropped.
func (s Summary) HasSkips() bool {
	return s.Skipped > 0
}

type options struct {
	logger *slog.Logger
}

// Option configures Convert.
type Option func(*options)

// WithLogger sends per-row diagnostics (skips and replacements) to logger
// at debug level. The document produced is the same with or without it.
// A nil logger keeps the package logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Convert parses text and builds the Document. It fails only when the
// header lacks a required column; the returned error is then a
// *HeaderError.
func Convert(text string, opts ...Option) (*types.Document, Summary, error) {
	o := options{logger: logging.GetLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.GetLogger()
	}

	lines := csvline.SplitLines(text)
	header := ""
	if len(lines) > 0 {
		header = lines[0]
	}
	cols, err := ResolveHeader(header)
	if err != nil {
		return nil, Summary{}, err
	}

	var sum Summary
	b := NewBuilder()
	for i, line := range lines[1:] {
		row := i + 1
		fields := csvline.ParseLine(line)
		outcome := b.Add(fields, cols)
		switch {
		case outcome == RowAdded:
			sum.Added++
		case outcome == RowReplaced:
			sum.Replaced++
			chapter, _ := number(fields, cols.Chapter)
			verse, _ := number(fields, cols.Verse)
			logging.VerseReplaced(o.logger, row, fields[cols.Book], chapter, verse)
		case outcome.Skipped():
			sum.Skipped++
			logging.RowSkipped(o.logger, row, outcome.String())
		}
	}

	doc := b.Document()
	sum.Books, sum.Chapters, sum.Verses = doc.Counts()
	return doc, sum, nil
}
