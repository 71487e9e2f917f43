// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared document model and configuration
// structures for scroll-convert.
package types

// Document is the root of a converted corpus. Books appear in the order
// they were first seen in the input.
type Document struct {
	Books []*Book `json:"books" yaml:"books"`
}

// Book holds the chapters of one named book.
type Book struct {
	// Name is the book name exactly as it appeared in the input. It is the
	// book's identity key.
	Name string `json:"name" yaml:"name"`

	// CommonName is the display name. The converter sets it to Name.
	CommonName string `json:"commonName" yaml:"commonName"`

	// Order is the 1-based rank of the book's first appearance in the input.
	Order int `json:"order" yaml:"order"`

	// Chapters are kept sorted ascending by Number.
	Chapters []*Chapter `json:"chapters" yaml:"chapters"`
}

// Chapter holds the verses of one chapter, unique by Number within a Book.
type Chapter struct {
	Number float64 `json:"number" yaml:"number"`

	// Content holds the chapter's verses sorted ascending by Number.
	Content []*Verse `json:"content" yaml:"content"`
}

// Verse is a single numbered verse. Content always holds exactly one
// string, the verse text.
type Verse struct {
	Number  float64  `json:"number" yaml:"number"`
	Content []string `json:"content" yaml:"content"`
}

// Text returns the verse text, or "" when Content is empty.
func (v *Verse) Text() string {
	if len(v.Content) == 0 {
		return ""
	}
	return v.Content[0]
}

// Counts returns the number of books, chapters, and verses in the document.
func (d *Document) Counts() (books, chapters, verses int) {
	books = len(d.Books)
	for _, b := range d.Books {
		chapters += len(b.Chapters)
		for _, c := range b.Chapters {
			verses += len(c.Content)
		}
	}
	return books, chapters, verses
}
