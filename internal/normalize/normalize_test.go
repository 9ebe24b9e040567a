package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// ISO 639-1 codes (passthrough)
		{"en", "en"},
		{"de", "de"},
		{"fr", "fr"},
		// ISO 639-2 codes, as Open Library reports them
		{"eng", "en"},
		{"deu", "de"},
		{"spa", "es"},
		// Locale codes
		{"en-US", "en"},
		{"en_GB", "en"},
		{"pt-BR", "pt"},
		// Edge cases
		{"", ""},
		{"  en  ", "en"},
		{"e\x00n", "en"},
		{"unknown", ""},
		{"12", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, LanguageCode(tt.input))
		})
	}
}

func TestLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"eng", "English"},
		{"de", "German"},
		{"", ""},
		{"not a language", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Language(tt.input))
		})
	}
}

func TestSearchTerm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "dune", "dune"},
		{"collapses whitespace", "the   left\thand", "the left hand"},
		{"trims", "  dune  ", "dune"},
		{"drops control characters", "du\x01ne", "dune"},
		{"composes accents", "Mo\u0301nica", "M\u00f3nica"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchTerm(tt.input))
		})
	}
}

func TestStrings(t *testing.T) {
	got := Strings([]string{" Fiction ", "", "Fiction", "Science  Fiction", "  "})
	assert.Equal(t, []string{"Fiction", "Science Fiction"}, got)

	assert.Nil(t, Strings(nil))
	assert.Nil(t, Strings([]string{" ", ""}))
}
