// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scroll

import (
	"cmp"
	"slices"

	"github.com/pdiddy/scroll-convert/pkg/types"
)

// RowOutcome classifies what Builder.Add did with a row.
type RowOutcome int

const (
	RowAdded RowOutcome = iota
	RowReplaced
	RowSkippedBook
	RowSkippedChapter
	RowSkippedVerse
)

// Skipped reports whether the row left the document unchanged.
func (o RowOutcome) Skipped() bool {
	return o >= RowSkippedBook
}

func (o RowOutcome) String() string {
	switch o {
	case RowAdded:
		return "added"
	case RowReplaced:
		return "replaced"
	case RowSkippedBook:
		return "empty book"
	case RowSkippedChapter:
		return "bad chapter"
	case RowSkippedVerse:
		return "bad verse"
	}
	return "unknown"
}

// Builder folds rows into a Document. Books keep first-appearance order;
// chapters and verses are kept sorted ascending by number as they are
// inserted.
type Builder struct {
	doc   *types.Document
	books map[string]*types.Book
}

// NewBuilder returns a Builder holding an empty document.
func NewBuilder() *Builder {
	return &Builder{
		doc:   &types.Document{Books: []*types.Book{}},
		books: make(map[string]*types.Book),
	}
}

// Document returns the document built so far. The Builder keeps ownership;
// further Add calls mutate the returned value.
func (b *Builder) Document() *types.Document {
	return b.doc
}

// Add folds one parsed row into the document. Rows with an empty book name
// or a non-numeric chapter or verse are skipped without error.
func (b *Builder) Add(row []string, cols Columns) RowOutcome {
	name, _ := field(row, cols.Book)
	if name == "" {
		return RowSkippedBook
	}
	chapter, ok := number(row, cols.Chapter)
	if !ok {
		return RowSkippedChapter
	}
	verse, ok := number(row, cols.Verse)
	if !ok {
		return RowSkippedVerse
	}
	text, _ := field(row, cols.Text)

	book := b.EnsureBook(name)
	ch := b.EnsureChapter(book, chapter)
	if b.EnsureVerse(ch, verse, text) {
		return RowReplaced
	}
	return RowAdded
}

// EnsureBook returns the book with the given name, creating it with the
// next order number if it has not been seen.
func (b *Builder) EnsureBook(name string) *types.Book {
	if book, ok := b.books[name]; ok {
		return book
	}
	book := &types.Book{
		Name:       name,
		CommonName: name,
		Order:      len(b.doc.Books) + 1,
		Chapters:   []*types.Chapter{},
	}
	b.books[name] = book
	b.doc.Books = append(b.doc.Books, book)
	return book
}

// EnsureChapter returns the chapter numbered n in book, inserting it in
// ascending position if absent.
func (b *Builder) EnsureChapter(book *types.Book, n float64) *types.Chapter {
	i, found := slices.BinarySearchFunc(book.Chapters, n, func(c *types.Chapter, n float64) int {
		return cmp.Compare(c.Number, n)
	})
	if found {
		return book.Chapters[i]
	}
	ch := &types.Chapter{Number: n, Content: []*types.Verse{}}
	book.Chapters = slices.Insert(book.Chapters, i, ch)
	return ch
}

// EnsureVerse sets the text of verse n in ch. A new verse is inserted in
// ascending position; an existing verse has its text replaced in place and
// EnsureVerse reports true.
func (b *Builder) EnsureVerse(ch *types.Chapter, n float64, text string) bool {
	i, found := slices.BinarySearchFunc(ch.Content, n, func(v *types.Verse, n float64) int {
		return cmp.Compare(v.Number, n)
	})
	if found {
		ch.Content[i].Content = []string{text}
		return true
	}
	ch.Content = slices.Insert(ch.Content, i, &types.Verse{Number: n, Content: []string{text}})
	return false
}

func field(row []string, i int) (string, bool) {
	if i < 0 || i >= len(row) {
		return "", false
	}
	return row[i], true
}

// number parses the cell at i. A cell missing from a short row is not a
// number, unlike an empty cell, which is zero.
func number(row []string, i int) (float64, bool) {
	s, ok := field(row, i)
	if !ok {
		return 0, false
	}
	return ParseNumber(s)
}
