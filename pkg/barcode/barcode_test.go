package barcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"12345678", true},
		{"123456789012", true},
		{"1234567890123", true},
		{"1234567", false},
		{"123456789", false},
		{"12345678901", false},
		{"12345678901234", false},
		{"1234567a", false},
		{"1234 678", false},
		{"", false},
		{"١٢٣٤٥٦٧٨", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.code), "code %q", tt.code)
	}
}

func TestValidMatchesDigitsAndLengthRule(t *testing.T) {
	for n := 0; n <= 20; n++ {
		code := strings.Repeat("7", n)
		want := n == 8 || n == 12 || n == 13
		assert.Equal(t, want, Valid(code), "length %d", n)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "12345678", Normalize("  12345678\n"))
	assert.Equal(t, "", Normalize("   "))
}
