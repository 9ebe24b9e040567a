// Package domain contains the core entities shared by the catalog adapters, the search orchestrator and its presentation layers.
package domain

import (
	"strconv"
	"strings"
)

// UnknownAuthor is shown when a book carries no author names.
const UnknownAuthor = "Unknown author"

// Book is a single catalog entry returned by a remote lookup.
// Values are treated as immutable once constructed.
type Book struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Subtitle          string   `json:"subtitle,omitempty"`
	Authors           []string `json:"authors"`
	Publisher         string   `json:"publisher,omitempty"`
	PublishedDate     string   `json:"published_date,omitempty"` // Raw catalog value: "1965", "1965-08", "1965-08-01"
	Description       string   `json:"description,omitempty"`
	PageCount         *int     `json:"page_count,omitempty"`
	Categories        []string `json:"categories,omitempty"`
	Language          string   `json:"language,omitempty"`
	ThumbnailURL      string   `json:"thumbnail_url,omitempty"`
	SmallThumbnailURL string   `json:"small_thumbnail_url,omitempty"`
	PreviewLink       string   `json:"preview_link,omitempty"`
	InfoLink          string   `json:"info_link,omitempty"`
}

// PrimaryAuthor returns the first author, or UnknownAuthor.
func (b *Book) PrimaryAuthor() string {
	if len(b.Authors) == 0 {
		return UnknownAuthor
	}
	return b.Authors[0]
}

// AuthorsString joins all authors for display.
func (b *Book) AuthorsString() string {
	return strings.Join(b.Authors, ", ")
}

// ImageURL returns the best cover URL available.
func (b *Book) ImageURL() string {
	if b.ThumbnailURL != "" {
		return b.ThumbnailURL
	}
	return b.SmallThumbnailURL
}

// HasImage reports whether the book has any cover URL.
func (b *Book) HasImage() bool {
	return strings.TrimSpace(b.ImageURL()) != ""
}

// PublishedYear extracts the year from PublishedDate.
// Returns false when the date is missing or does not start with a year.
func (b *Book) PublishedYear() (int, bool) {
	if len(b.PublishedDate) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(b.PublishedDate[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}
