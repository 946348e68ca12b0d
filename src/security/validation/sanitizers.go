package validation

import (
	"strings"
	"unicode"
)

// formulaPrefixes make spreadsheet applications evaluate a cell as a formula.
const formulaPrefixes = "=+-@\t\r"

// SanitizeForFormulaInjection prefixes text that a spreadsheet would read as a
// formula with a single quote. Use it on free-text cells only; it would also
// quote negative numbers.
func SanitizeForFormulaInjection(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed != "" && strings.ContainsRune(formulaPrefixes, rune(trimmed[0])) {
		return "'" + s
	}
	return s
}

// StripUnprintable drops non-printable runes, including a UTF-8 byte order mark,
// and keeps tab, newline and carriage return so line and field structure survive.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}
