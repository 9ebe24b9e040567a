// Package dto provides Data Transfer Objects for API responses and SSE events.
//
// DTOs carry display fields derived from the domain model so that clients can
// render a search result without reimplementing author or year fallbacks.
package dto

import "github.com/shelfscout/shelfscout/internal/domain"

// Book is the client-facing representation of a catalog entry.
type Book struct {
	domain.Book // Embeds all catalog fields

	// Derived display fields
	Author   string `json:"author"`             // First author, or "Unknown author"
	Year     int    `json:"year,omitempty"`     // Parsed from PublishedDate
	ImageURL string `json:"image_url,omitempty"` // Best available cover
}

// NewBook derives the display fields for a single book.
func NewBook(b domain.Book) Book {
	out := Book{
		Book:     b,
		Author:   b.PrimaryAuthor(),
		ImageURL: b.ImageURL(),
	}
	if year, ok := b.PublishedYear(); ok {
		out.Year = year
	}
	if out.Authors == nil {
		out.Authors = []string{}
	}
	return out
}

// NewBooks converts a result list, preserving order.
func NewBooks(books []domain.Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		out = append(out, NewBook(b))
	}
	return out
}
