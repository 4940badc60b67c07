// Package barcode validates retail barcodes (EAN-8, UPC-A, EAN-13 lengths).
package barcode

import "strings"

var validLengths = map[int]struct{}{8: {}, 12: {}, 13: {}}

// Valid reports whether code is all ASCII digits with length 8, 12 or 13.
// Check digits are not verified.
func Valid(code string) bool {
	if _, ok := validLengths[len(code)]; !ok {
		return false
	}
	return IsDigits(code)
}

// IsDigits reports whether s is non-empty and made only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Normalize trims surrounding whitespace. An empty result means "no barcode".
func Normalize(code string) string {
	return strings.TrimSpace(code)
}
