package googlebooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "A desert planet", "A desert planet"},
		{"entities", "Paul&#39;s &amp; Chani", "Paul's & Chani"},
		{"bold highlight", "the <b>dune</b> saga", "the dune saga"},
		{"paragraphs", "<p>One.</p><p>Two.</p>", "One. Two."},
		{"line break", "first<br>second", "first second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripHTML(tt.input))
		})
	}
}

func TestDescriptionMarkdown(t *testing.T) {
	assert.Equal(t, "", descriptionMarkdown("   "))
	assert.Equal(t, "No markup here.", descriptionMarkdown(" No markup here. "))
	assert.Equal(t, "A **bold** claim.", descriptionMarkdown("<p>A <b>bold</b> claim.</p>"))
}

func TestSecureURL(t *testing.T) {
	assert.Equal(t, "https://books.google.com/x", secureURL("http://books.google.com/x"))
	assert.Equal(t, "https://already.secure/x", secureURL("https://already.secure/x"))
	assert.Equal(t, "", secureURL(""))
}
