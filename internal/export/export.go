// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes a converted Document to disk as JSON, YAML, or
// SQLite, with optional xz compression and a BLAKE3 checksum sidecar.
//
// Output is all-or-nothing: the document is rendered to a temporary file in
// the destination directory and renamed into place only when complete.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/scroll-convert/internal/logging"
	"github.com/pdiddy/scroll-convert/pkg/types"
)

// ErrUnsupported is wrapped by configuration errors for format and
// compression combinations the exporter cannot produce.
var ErrUnsupported = errors.New("unsupported export")

const xzExt = ".xz"

// Result describes what Write produced.
type Result struct {
	Path       string
	Format     types.OutputFormat
	Compressed bool
	Bytes      int64

	// Checksum is the hex BLAKE3-256 of the written file, set when the
	// config asked for a sidecar.
	Checksum     string
	ChecksumPath string
}

// Plan is a resolved export configuration for one output path.
type Plan struct {
	Format   types.OutputFormat
	Compress bool
	Checksum bool
}

// DetectFormat infers the output format from the path extension, ignoring a
// trailing ".xz". Unknown extensions are JSON.
func DetectFormat(path string) types.OutputFormat {
	p := strings.ToLower(path)
	p = strings.TrimSuffix(p, xzExt)
	switch filepath.Ext(p) {
	case ".yaml", ".yml":
		return types.FormatYAML
	case ".db", ".sqlite", ".sqlite3":
		return types.FormatSQLite
	}
	return types.FormatJSON
}

// Resolve validates cfg against path and returns the plan Write will follow.
// It touches no files, so callers can reject bad settings before reading
// any input.
func Resolve(path string, cfg types.ExportConfig) (Plan, error) {
	format := cfg.Format
	switch format {
	case types.FormatAuto:
		format = DetectFormat(path)
	case types.FormatJSON, types.FormatYAML, types.FormatSQLite:
	default:
		return Plan{}, fmt.Errorf("%w: format %q (want json, yaml, or sqlite)", ErrUnsupported, format)
	}

	var compress bool
	switch cfg.Compress {
	case types.CompressAuto, "":
		compress = strings.HasSuffix(strings.ToLower(path), xzExt)
	case types.CompressNone:
	case types.CompressXZ:
		compress = true
	default:
		return Plan{}, fmt.Errorf("%w: compression %q (want auto, none, or xz)", ErrUnsupported, cfg.Compress)
	}

	if compress && format == types.FormatSQLite {
		return Plan{}, fmt.Errorf("%w: sqlite output cannot be xz-compressed", ErrUnsupported)
	}

	return Plan{Format: format, Compress: compress, Checksum: cfg.Checksum}, nil
}

type options struct {
	source string
	now    func() time.Time
}

// Option configures Write.
type Option func(*options)

// WithSource records the input path in exports that carry metadata.
func WithSource(path string) Option {
	return func(o *options) {
		o.source = path
	}
}

// WithClock overrides the timestamp source used for export metadata.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Write serializes doc to path according to cfg.
func Write(doc *types.Document, path string, cfg types.ExportConfig, opts ...Option) (Result, error) {
	plan, err := Resolve(path, cfg)
	if err != nil {
		return Result{}, err
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	res := Result{Path: path, Format: plan.Format, Compressed: plan.Compress}

	var (
		tmp  string
		data []byte
	)
	switch plan.Format {
	case types.FormatSQLite:
		meta := Meta{Source: o.source, CreatedAt: o.now().UTC()}
		if tmp, err = buildSQLite(doc, path, meta); err != nil {
			return Result{}, err
		}
		if plan.Checksum {
			if data, err = os.ReadFile(tmp); err != nil {
				os.Remove(tmp)
				return Result{}, fmt.Errorf("reading back %s: %w", path, err)
			}
		}
	default:
		if data, err = render(doc, plan); err != nil {
			return Result{}, err
		}
		if tmp, err = stageFile(path, data); err != nil {
			return Result{}, err
		}
	}

	info, err := os.Stat(tmp)
	if err != nil {
		os.Remove(tmp)
		return Result{}, fmt.Errorf("stat %s: %w", tmp, err)
	}
	res.Bytes = info.Size()

	// The sidecar is committed first so a failure there leaves the output
	// path untouched.
	if plan.Checksum {
		res.Checksum = Blake3Hex(data)
		res.ChecksumPath = path + checksumExt
		sideTmp, err := stageFile(res.ChecksumPath, checksumLine(res.Checksum, path))
		if err != nil {
			os.Remove(tmp)
			return Result{}, fmt.Errorf("writing checksum: %w", err)
		}
		if err := commit(sideTmp, res.ChecksumPath); err != nil {
			os.Remove(tmp)
			return Result{}, fmt.Errorf("writing checksum: %w", err)
		}
	}

	if err := commit(tmp, path); err != nil {
		if res.ChecksumPath != "" {
			os.Remove(res.ChecksumPath)
		}
		return Result{}, err
	}

	logging.OutputWritten(res.Path, string(res.Format), res.Bytes,
		"compressed", res.Compressed,
		"blake3", res.Checksum,
	)
	return res, nil
}

func render(doc *types.Document, plan Plan) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch plan.Format {
	case types.FormatYAML:
		data, err = EncodeYAML(doc)
	default:
		data, err = EncodeJSON(doc)
	}
	if err != nil {
		return nil, err
	}

	if plan.Compress {
		var buf bytes.Buffer
		if err := compressXZ(&buf, data); err != nil {
			return nil, err
		}
		data = buf.Bytes()
	}
	return data, nil
}
