// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutputFormat selects the serialization written to the output path.
type OutputFormat string

const (
	// FormatAuto infers the format from the output file extension.
	FormatAuto   OutputFormat = ""
	FormatJSON   OutputFormat = "json"
	FormatYAML   OutputFormat = "yaml"
	FormatSQLite OutputFormat = "sqlite"
)

// Compression selects how the serialized bytes are compressed.
type Compression string

const (
	// CompressAuto compresses with xz when the output path ends in ".xz".
	CompressAuto Compression = "auto"
	CompressNone Compression = "none"
	CompressXZ   Compression = "xz"
)

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default warn).
	Level string `json:"level" yaml:"level"`

	// Format is text or json (default text).
	Format string `json:"format" yaml:"format"`
}

// ExportConfig holds settings for the serialization stage.
type ExportConfig struct {
	// Format selects json, yaml, or sqlite. Empty means infer from the
	// output path.
	Format OutputFormat `json:"format" yaml:"format"`

	// Compress selects auto, none, or xz (default auto).
	Compress Compression `json:"compress" yaml:"compress"`

	// Checksum writes a BLAKE3 sidecar file next to the output when true.
	Checksum bool `json:"checksum" yaml:"checksum"`
}

// ConvertConfig groups the settings for one conversion run.
type ConvertConfig struct {
	// InputPath is the delimited source file.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is where the converted document is written.
	OutputPath string `json:"output_path" yaml:"output_path"`

	Export ExportConfig `json:"export" yaml:"export"`
	Log    LogConfig    `json:"log" yaml:"log"`
}
