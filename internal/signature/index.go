// Package signature holds the pure algorithms behind the signature
// component/element hierarchy: index rendering under the component's
// numbering scheme, deterministic re-index ordering, display-path
// formatting, and cycle detection over the cross-component parent DAG.
package signature

import (
	"strconv"
	"strings"

	"arcapi/internal/apperr"
	"arcapi/internal/model"
)

// FormatIndex renders the 1-based position n under the given scheme.
func FormatIndex(t model.IndexType, n int) (string, error) {
	if n < 1 {
		return "", apperr.Validation("index", "position must be >= 1, got %d", n)
	}
	switch t {
	case model.IndexDec:
		return strconv.Itoa(n), nil
	case model.IndexRoman:
		return roman(n), nil
	case model.IndexSmallChar:
		return bijective26(n, false), nil
	case model.IndexCapitalChar:
		return bijective26(n, true), nil
	}
	return "", apperr.Validation("index_type", "unknown index type %q", t)
}

// ParseIndex is the inverse of FormatIndex: it recovers the 1-based
// position a rendered index encodes under the given scheme. ok is false
// when s is not a canonical rendering under that scheme.
func ParseIndex(t model.IndexType, s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	switch t {
	case model.IndexDec:
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || strconv.Itoa(n) != s {
			return 0, false
		}
		return n, true
	case model.IndexRoman:
		return parseRoman(s)
	case model.IndexSmallChar:
		return parseBijective26(s, false)
	case model.IndexCapitalChar:
		return parseBijective26(s, true)
	}
	return 0, false
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// roman renders n in uppercase subtractive notation.
func roman(n int) string {
	var b strings.Builder
	for _, rn := range romanNumerals {
		for n >= rn.value {
			b.WriteString(rn.symbol)
			n -= rn.value
		}
	}
	return b.String()
}

var romanValues = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// parseRoman reads subtractive notation and accepts only strings that
// round-trip through roman, so "IIII" and "VX" are rejected.
func parseRoman(s string) (int, bool) {
	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := romanValues[s[i]]
		if !ok {
			return 0, false
		}
		if i+1 < len(s) && romanValues[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	if total < 1 || roman(total) != s {
		return 0, false
	}
	return total, true
}

// bijective26 renders n in bijective base-26: a..z, aa, ab, ...
func bijective26(n int, upper bool) string {
	base := byte('a')
	if upper {
		base = 'A'
	}
	var out []byte
	for n > 0 {
		n--
		out = append([]byte{base + byte(n%26)}, out...)
		n /= 26
	}
	return string(out)
}

func parseBijective26(s string, upper bool) (int, bool) {
	base := byte('a')
	if upper {
		base = 'A'
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < base || c > base+25 {
			return 0, false
		}
		n = n*26 + int(c-base) + 1
	}
	return n, true
}
