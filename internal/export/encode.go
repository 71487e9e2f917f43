// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scroll-convert/pkg/types"
)

// EncodeJSON renders doc with two-space indentation, HTML characters left
// unescaped, and no trailing newline.
func EncodeJSON(doc *types.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(nonNil(doc)); err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// EncodeYAML renders doc as a YAML document with the same keys as the JSON
// form.
func EncodeYAML(doc *types.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(nonNil(doc)); err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// nonNil guarantees "books" serializes as an empty list rather than null.
func nonNil(doc *types.Document) *types.Document {
	if doc == nil {
		return &types.Document{Books: []*types.Book{}}
	}
	if doc.Books == nil {
		return &types.Document{Books: []*types.Book{}}
	}
	return doc
}
