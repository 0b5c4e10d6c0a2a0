package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already clean", "$29.99", "$29.99"},
		{"label prefix", "Price: $29.99", "$29.99"},
		{"thousands separator kept", "$1,299.00", "$1,299.00"},
		{"whitespace and words", "  Now only 5 dollars ", "5"},
		{"empty input", "", ""},
		{"nothing price-like", "unavailable", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePrice(tt.input))
		})
	}
}
