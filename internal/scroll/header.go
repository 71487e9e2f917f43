// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scroll

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/scroll-convert/internal/csvline"
)

// ErrInvalidHeader is wrapped by every HeaderError.
var ErrInvalidHeader = errors.New("invalid header")

// Columns holds the zero-based positions of the required columns.
type Columns struct {
	Book    int
	Chapter int
	Verse   int
	Text    int
}

// HeaderError reports a header row that lacks one or more required columns.
type HeaderError struct {
	Line    string   // header line as read, before parsing
	Missing []string // required column names not found, lowercase
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("CSV header must include Book,Chapter,Verse,Text. Got: %s", e.Line)
}

func (e *HeaderError) Unwrap() error {
	return ErrInvalidHeader
}

// requiredColumns lists the header names in Columns field order.
var requiredColumns = []string{"book", "chapter", "verse", "text"}

// ResolveHeader locates the required columns in a header line. Matching is
// case-insensitive, the first occurrence of a name wins, and extra columns
// are ignored.
func ResolveHeader(line string) (Columns, error) {
	names := csvline.ParseLine(line)
	for i := range names {
		names[i] = strings.ToLower(names[i])
	}

	idx := make([]int, len(requiredColumns))
	var missing []string
	for i, want := range requiredColumns {
		idx[i] = indexOf(names, want)
		if idx[i] < 0 {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return Columns{}, &HeaderError{Line: line, Missing: missing}
	}

	return Columns{Book: idx[0], Chapter: idx[1], Verse: idx[2], Text: idx[3]}, nil
}

func indexOf(names []string, want string) int {
	for i, n := range names {
		if n == want {
			return i
		}
	}
	return -1
}
