package googlebooks

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shelfscout/shelfscout/internal/catalog"
	"github.com/shelfscout/shelfscout/internal/domain"
	"github.com/shelfscout/shelfscout/internal/normalize"
)

// Query renders the q parameter for a term in the given scope.
// TITLE and AUTHOR use the intitle: and inauthor: field prefixes.
func Query(term string, scope domain.Scope) string {
	switch scope {
	case domain.ScopeTitle:
		return "intitle:" + term
	case domain.ScopeAuthor:
		return "inauthor:" + term
	default:
		return term
	}
}

// Search implements catalog.Searcher.
func (c *Client) Search(ctx context.Context, term string, scope domain.Scope) ([]domain.Book, error) {
	term = normalize.SearchTerm(term)
	if term == "" {
		return nil, catalog.WrapError("search", catalog.ProviderGoogleBooks, catalog.ErrBlankTerm)
	}

	query := url.Values{}
	query.Set("q", Query(term, scope))
	query.Set("maxResults", strconv.Itoa(c.cfg.MaxResults))
	query.Set("startIndex", "0")
	query.Set("printType", "books")
	if c.cfg.APIKey != "" {
		query.Set("key", c.cfg.APIKey)
	}
	if c.cfg.LangRestrict != "" {
		query.Set("langRestrict", c.cfg.LangRestrict)
	}

	body, err := c.doRequest(ctx, "/volumes", query)
	if err != nil {
		return nil, catalog.WrapError("search", catalog.ProviderGoogleBooks, err)
	}

	var resp volumesResponse
	if err := decode(body, &resp); err != nil {
		return nil, catalog.WrapError("search", catalog.ProviderGoogleBooks,
			fmt.Errorf("%w: %w", catalog.ErrMalformed, err))
	}

	books := make([]domain.Book, 0, len(resp.Items))
	for i := range resp.Items {
		if book, ok := toBook(&resp.Items[i]); ok {
			books = append(books, book)
		}
	}

	c.logger.Debug("google books results",
		"q", query.Get("q"),
		"total", resp.TotalItems,
		"count", len(books),
	)

	return books, nil
}

// toBook maps a volume to a domain.Book. Volumes without an ID are skipped.
func toBook(v *volume) (domain.Book, bool) {
	if strings.TrimSpace(v.ID) == "" {
		return domain.Book{}, false
	}
	info := &v.VolumeInfo

	description := descriptionMarkdown(info.Description)
	if description == "" && v.SearchInfo != nil {
		description = stripHTML(v.SearchInfo.TextSnippet)
	}

	var pageCount *int
	if info.PageCount != nil && *info.PageCount > 0 {
		n := *info.PageCount
		pageCount = &n
	}

	book := domain.Book{
		ID:            v.ID,
		Title:         normalize.Text(info.Title),
		Subtitle:      normalize.Text(info.Subtitle),
		Authors:       normalize.Strings(info.Authors),
		Publisher:     normalize.Text(info.Publisher),
		PublishedDate: strings.TrimSpace(info.PublishedDate),
		Description:   description,
		PageCount:     pageCount,
		Categories:    normalize.Strings(info.Categories),
		Language:      normalize.LanguageCode(info.Language),
		PreviewLink:   secureURL(info.PreviewLink),
		InfoLink:      secureURL(info.InfoLink),
	}
	if info.ImageLinks != nil {
		book.ThumbnailURL = secureURL(info.ImageLinks.Thumbnail)
		book.SmallThumbnailURL = secureURL(info.ImageLinks.SmallThumbnail)
	}
	return book, true
}

// secureURL upgrades http links to https; the API still hands out plain http
// image links that mixed-content browsers refuse to load.
func secureURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, "http://"); ok {
		return "https://" + rest
	}
	return raw
}
