package utils

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// MinInt returns the smaller of two integers.
func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// FormatNumber renders v with the fewest digits that round-trip.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseNumber converts locale-variant numeric text to a float64. It never fails
// loudly: ok is false when the text is not a finite number.
//
// Whitespace is stripped first. When both ',' and '.' appear the commas are
// thousands separators. A lone ',' is a decimal comma; several commas are
// thousands separators. The rule set is fixed and does not look at locale.
func ParseNumber(raw string) (value float64, ok bool) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if cleaned == "" {
		return 0, false
	}

	hasComma := strings.Contains(cleaned, ",")
	switch {
	case hasComma && strings.Contains(cleaned, "."):
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case hasComma && strings.Count(cleaned, ",") == 1:
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case hasComma:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
