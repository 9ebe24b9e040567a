package googlebooks

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscout/shelfscout/internal/catalog"
	"github.com/shelfscout/shelfscout/internal/domain"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "load fixture %s", name)
	return data
}

func newTestClient(t *testing.T, cfg Config, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL
	client := New(cfg, slog.New(slog.DiscardHandler))
	client.http = server.Client()
	t.Cleanup(client.Close)

	return client
}

func TestQuery(t *testing.T) {
	assert.Equal(t, "dune", Query("dune", domain.ScopeAll))
	assert.Equal(t, "intitle:dune", Query("dune", domain.ScopeTitle))
	assert.Equal(t, "inauthor:herbert", Query("herbert", domain.ScopeAuthor))
}

func TestClient_SearchBuildsRequest(t *testing.T) {
	var got *http.Request
	client := newTestClient(t, Config{APIKey: "k-123", MaxResults: 20, LangRestrict: "es"},
		func(w http.ResponseWriter, r *http.Request) {
			got = r.Clone(context.Background())
			_, _ = w.Write([]byte(`{"kind":"books#volumes","totalItems":0}`))
		})

	_, err := client.Search(context.Background(), "  the   left hand ", domain.ScopeTitle)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "/volumes", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "intitle:the left hand", q.Get("q"))
	assert.Equal(t, "20", q.Get("maxResults"))
	assert.Equal(t, "0", q.Get("startIndex"))
	assert.Equal(t, "k-123", q.Get("key"))
	assert.Equal(t, "es", q.Get("langRestrict"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
}

func TestClient_SearchOmitsEmptyKey(t *testing.T) {
	var gotKey atomic.Bool
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.URL.Query().Has("key"))
		assert.Equal(t, "40", r.URL.Query().Get("maxResults"))
		_, _ = w.Write([]byte(`{}`))
	})

	books, err := client.Search(context.Background(), "dune", domain.ScopeAll)
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.False(t, gotKey.Load())
}

func TestClient_SearchMapsVolumes(t *testing.T) {
	fixture := loadFixture(t, "volumes.json")
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(fixture)
	})

	books, err := client.Search(context.Background(), "dune", domain.ScopeAll)
	require.NoError(t, err)
	require.Len(t, books, 2)

	dune := books[0]
	assert.Equal(t, "B1hSG45JCX4C", dune.ID)
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, []string{"Frank Herbert"}, dune.Authors)
	assert.Equal(t, "Penguin", dune.Publisher)
	require.NotNil(t, dune.PageCount)
	assert.Equal(t, 896, *dune.PageCount)
	assert.Equal(t, "en", dune.Language)
	assert.Equal(t, "https://books.google.com/books/content?id=B1hSG45JCX4C&zoom=1", dune.ThumbnailURL)
	assert.Equal(t, "https://books.google.com/books/content?id=B1hSG45JCX4C&zoom=5", dune.SmallThumbnailURL)
	assert.Equal(t, "https://books.google.es/books?id=B1hSG45JCX4C", dune.InfoLink)
	assert.Contains(t, dune.Description, "**Arrakis**")
	assert.NotContains(t, dune.Description, "<p>")
	year, ok := dune.PublishedYear()
	assert.True(t, ok)
	assert.Equal(t, 2003, year)

	messiah := books[1]
	assert.Equal(t, "The Second Book", messiah.Subtitle)
	assert.Equal(t, []string{"Frank Herbert"}, messiah.Authors)
	assert.Nil(t, messiah.PageCount)
	assert.Equal(t, "Paul's dune empire", messiah.Description)
	assert.False(t, messiah.HasImage())
}

func TestClient_SearchNoItems(t *testing.T) {
	fixture := loadFixture(t, "no_items.json")
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(fixture)
	})

	books, err := client.Search(context.Background(), "zzz_no_match", domain.ScopeAll)
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestClient_SearchStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    error
	}{
		{"bad request", http.StatusBadRequest, `{"error":{"code":400,"message":"Invalid query"}}`, catalog.ErrBadRequest},
		{"quota exceeded", http.StatusForbidden, "", catalog.ErrRateLimited},
		{"rate limited", http.StatusTooManyRequests, "", catalog.ErrRateLimited},
		{"server error", http.StatusInternalServerError, "", catalog.ErrServer},
		{"bad gateway", http.StatusBadGateway, "", catalog.ErrServer},
		{"malformed", http.StatusOK, `{"items": [`, catalog.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Search(context.Background(), "dune", domain.ScopeAll)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var catErr *catalog.Error
			require.True(t, errors.As(err, &catErr))
			assert.Equal(t, catalog.ProviderGoogleBooks, catErr.Provider)
			assert.Equal(t, "search", catErr.Op)
			assert.NotEmpty(t, err.Error())
		})
	}
}

func TestClient_SearchUnexpectedStatusQuotesMessage(t *testing.T) {
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Not Found"}}`))
	})

	_, err := client.Search(context.Background(), "dune", domain.ScopeAll)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404: Not Found")
}

func TestClient_SearchBlankTerm(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, Config{}, func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	})

	_, err := client.Search(context.Background(), "   ", domain.ScopeAll)
	assert.ErrorIs(t, err, catalog.ErrBlankTerm)
	assert.Zero(t, calls.Load())
}

func TestClient_SearchHonorsCancellation(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.Search(ctx, "dune", domain.ScopeAll)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Search did not return after cancellation")
	}
}

func TestClient_SearchUnreachable(t *testing.T) {
	client := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, slog.New(slog.DiscardHandler))
	defer client.Close()

	_, err := client.Search(context.Background(), "dune", domain.ScopeAll)
	assert.ErrorIs(t, err, catalog.ErrUnavailable)
}
