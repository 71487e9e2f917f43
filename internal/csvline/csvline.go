// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package csvline splits scrollmapper-style CSV text into lines and fields.
//
// The rules are deliberately lenient: a double quote toggles quoting
// wherever it appears, a doubled quote inside a quoted span is a literal
// quote, and unbalanced quotes are not an error. encoding/csv rejects or
// reinterprets several of these inputs, so the parser is hand-rolled.
package csvline

import (
	"strings"
	"unicode"
)

// ParseLine splits one line into fields. Fields are separated by commas
// outside quoted spans and each field is trimmed with Trim. An empty line
// yields a single empty field, and a trailing comma yields a trailing
// empty field.
func ParseLine(line string) []string {
	var (
		out      []string
		cur      strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			out = append(out, Trim(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	out = append(out, Trim(cur.String()))
	return out
}

// SplitLines splits text on "\n" or "\r\n" and drops empty lines.
// Lines holding only white space are kept.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Trim removes leading and trailing white space, line terminators, and
// byte-order marks. U+0085 is not treated as space.
func Trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func isSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}
