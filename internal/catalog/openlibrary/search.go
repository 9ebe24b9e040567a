package openlibrary

import (
	"context"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/shelfscout/shelfscout/internal/catalog"
	"github.com/shelfscout/shelfscout/internal/domain"
	"github.com/shelfscout/shelfscout/internal/normalize"
)

const (
	searchFields = "key,title,subtitle,author_name,first_publish_year,cover_i," +
		"publisher,language,subject,number_of_pages_median,ia"
	maxSubjects = 5
)

type searchResponse struct {
	NumFound int   `json:"numFound"`
	Start    int   `json:"start"`
	Docs     []doc `json:"docs"`
}

type doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverI           int      `json:"cover_i"`
	Publisher        []string `json:"publisher"`
	Language         []string `json:"language"`
	Subject          []string `json:"subject"`
	PagesMedian      int      `json:"number_of_pages_median"`
	IA               []string `json:"ia"`
}

// scopeParam names the search.json parameter carrying the term.
func scopeParam(scope domain.Scope) string {
	switch scope {
	case domain.ScopeTitle:
		return "title"
	case domain.ScopeAuthor:
		return "author"
	default:
		return "q"
	}
}

// Search implements catalog.Searcher.
func (c *Client) Search(ctx context.Context, term string, scope domain.Scope) ([]domain.Book, error) {
	term = normalize.SearchTerm(term)
	if term == "" {
		return nil, catalog.WrapError("search", catalog.ProviderOpenLibrary, catalog.ErrBlankTerm)
	}

	params := url.Values{}
	params.Set(scopeParam(scope), term)
	params.Set("limit", strconv.Itoa(c.cfg.Limit))
	params.Set("fields", searchFields)

	c.logger.Debug("searching open library",
		"param", scopeParam(scope),
		"term", term,
	)

	var resp searchResponse
	if err := c.get(ctx, "/search.json", params, &resp); err != nil {
		return nil, catalog.WrapError("search", catalog.ProviderOpenLibrary, err)
	}

	books := make([]domain.Book, 0, len(resp.Docs))
	for i := range resp.Docs {
		if book, ok := c.toBook(&resp.Docs[i]); ok {
			books = append(books, book)
		}
	}

	c.logger.Debug("open library results",
		"term", term,
		"found", resp.NumFound,
		"count", len(books),
	)

	return books, nil
}

func (c *Client) toBook(d *doc) (domain.Book, bool) {
	key := strings.TrimSpace(d.Key)
	if key == "" {
		return domain.Book{}, false
	}

	book := domain.Book{
		ID:       path.Base(key),
		Title:    normalize.Text(d.Title),
		Subtitle: normalize.Text(d.Subtitle),
		Authors:  normalize.Strings(d.AuthorName),
		InfoLink: DefaultBaseURL + key,
	}

	if publishers := normalize.Strings(d.Publisher); len(publishers) > 0 {
		book.Publisher = publishers[0]
	}
	if d.FirstPublishYear > 0 {
		book.PublishedDate = strconv.Itoa(d.FirstPublishYear)
	}
	if d.PagesMedian > 0 {
		n := d.PagesMedian
		book.PageCount = &n
	}
	for _, lang := range d.Language {
		if code := normalize.LanguageCode(lang); code != "" {
			book.Language = code
			break
		}
	}
	if subjects := normalize.Strings(d.Subject); len(subjects) > 0 {
		book.Categories = subjects[:min(len(subjects), maxSubjects)]
	}
	if d.CoverI > 0 {
		book.ThumbnailURL = CoverURL(d.CoverI, "M")
		book.SmallThumbnailURL = CoverURL(d.CoverI, "S")
	}
	if len(d.IA) > 0 {
		book.PreviewLink = "https://archive.org/details/" + d.IA[0]
	}
	return book, true
}

// CoverURL returns the covers API URL for a cover id in size S, M or L.
func CoverURL(coverID int, size string) string {
	return coverBaseURL + strconv.Itoa(coverID) + "-" + size + ".jpg"
}
