package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidASIN(t *testing.T) {
	tests := []struct {
		name  string
		asin  string
		valid bool
	}{
		{"uppercase alphanumeric", "B08N5WRWNW", true},
		{"lowercase accepted", "b08n5wrwnw", true},
		{"mixed case accepted", "b08N5wrWnw", true},
		{"all digits", "1234567890", true},
		{"all letters", "ABCDEFGHIJ", true},
		{"empty", "", false},
		{"too short", "B08N5WRWN", false},
		{"too long", "B08N5WRWNW1", false},
		{"punctuation", "INVALIDXX!", false},
		{"embedded space", "B08N5 RWNW", false},
		{"hyphen", "B08N5-RWNW", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidASIN(tt.asin))
		})
	}
}

func TestNormalizeASIN(t *testing.T) {
	assert.Equal(t, "B08N5WRWNW", NormalizeASIN("b08n5wrwnw"))
}
