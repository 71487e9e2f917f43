// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scroll

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/scroll-convert/internal/csvline"
)

// decimalLiteral matches an optionally signed decimal number with optional
// fraction and exponent. "1.", ".5" and "1e3" are accepted.
var decimalLiteral = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// ParseNumber converts a chapter or verse cell to a number. It reports
// false when the cell is not a finite numeric literal.
//
// An empty cell is zero. Unsigned 0x, 0o and 0b integer literals are
// accepted. Infinity, NaN, hex floats and digit separators are not.
func ParseNumber(s string) (float64, bool) {
	s = csvline.Trim(s)
	if s == "" {
		return 0, true
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseInteger(s[2:], base)
		}
	}

	if !decimalLiteral.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return normalize(f), true
}

func parseInteger(digits string, base int) (float64, bool) {
	if strings.ContainsAny(digits, "_+-") {
		return 0, false
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return 0, false
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	if math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// normalize folds negative zero into zero so "-0" and "0" key the same
// chapter and serialize the same way.
func normalize(f float64) float64 {
	if f == 0 {
		return 0
	}
	return f
}
