// Package normalize cleans up catalog data and search terms.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/unicode/norm"
)

// LanguageCode converts catalog language tags to ISO 639-1 codes.
// It handles:
//   - ISO 639-1 codes: "en" -> "en"
//   - ISO 639-2 codes: "eng" -> "en"
//   - Locale codes: "en-US", "en_GB" -> "en"
//
// Languages without a two-letter code keep their three-letter code.
// Returns empty string for unrecognized values.
func LanguageCode(raw string) string {
	s := strings.ToLower(strings.TrimSpace(sanitizeString(raw)))
	if s == "" {
		return ""
	}

	if idx := strings.IndexAny(s, "-_"); idx > 0 {
		s = s[:idx]
	}

	base, err := language.ParseBase(s)
	if err != nil {
		return ""
	}
	code := base.String()
	if code == "und" {
		return ""
	}
	return code
}

// Language converts a catalog language tag to an English display name.
// "en" -> "English", "deu" -> "German".
// Returns empty string for unrecognized values.
func Language(raw string) string {
	code := LanguageCode(raw)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(tag)
}

// SearchTerm prepares a trimmed user query for a catalog request.
// It applies NFC composition so that visually identical input produces
// identical requests, drops control characters, and collapses runs of
// whitespace to a single space.
func SearchTerm(raw string) string {
	s := norm.NFC.String(sanitizeString(raw))

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = b.Len() > 0
		case unicode.IsControl(r):
			continue
		default:
			if space {
				b.WriteByte(' ')
				space = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Text trims a free-text catalog field and collapses internal whitespace.
// Returns empty string for blank input.
func Text(raw string) string {
	return strings.Join(strings.Fields(sanitizeString(raw)), " ")
}

// Strings applies Text to each element and drops blanks and duplicates,
// preserving order. Returns nil when nothing survives.
func Strings(raw []string) []string {
	var out []string
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		s := Text(r)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// sanitizeString removes null bytes, which some catalog records carry
// and which break JSON consumers downstream.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
}
