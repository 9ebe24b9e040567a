package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscout/shelfscout/internal/catalog"
	"github.com/shelfscout/shelfscout/internal/config"
	"github.com/shelfscout/shelfscout/internal/domain"
	"github.com/shelfscout/shelfscout/internal/logger"
	"github.com/shelfscout/shelfscout/internal/session"
)

func TestNewSearcher_Providers(t *testing.T) {
	for _, provider := range []catalog.Provider{catalog.ProviderGoogleBooks, catalog.ProviderOpenLibrary} {
		t.Run(string(provider), func(t *testing.T) {
			h, err := NewSearcher(config.CatalogConfig{Provider: provider, MaxResults: 10, Timeout: time.Second}, logger.Discard().Logger)
			require.NoError(t, err)
			t.Cleanup(func() { _ = h.Shutdown() })

			_, ok := h.Searcher.(*catalog.Instrumented)
			assert.True(t, ok, "searcher is instrumented")

			_, err = h.Search(context.Background(), "   ", domain.ScopeAll)
			assert.ErrorIs(t, err, catalog.ErrBlankTerm)
		})
	}
}

func TestNewSearcher_UnknownProvider(t *testing.T) {
	_, err := NewSearcher(config.CatalogConfig{Provider: "amazon"}, logger.Discard().Logger)
	assert.Error(t, err)
}

func TestNewSearcher_UsesConfiguredBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "dune", r.URL.Query().Get("title"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"numFound":0,"docs":[]}`))
	}))
	defer srv.Close()

	h, err := NewSearcher(config.CatalogConfig{
		Provider:           catalog.ProviderOpenLibrary,
		OpenLibraryBaseURL: srv.URL,
		MaxResults:         5,
		Timeout:            time.Second,
	}, logger.Discard().Logger)
	require.NoError(t, err)

	books, err := h.Search(context.Background(), "dune", domain.ScopeTitle)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestRunSessionCleanup_ExpiresIdleSessions(t *testing.T) {
	log := logger.Discard()
	sessions := session.NewManager(catalog.SearchFunc(func(context.Context, string, domain.Scope) ([]domain.Book, error) {
		return nil, nil
	}), session.Config{TTL: time.Millisecond}, log.Logger)
	t.Cleanup(func() { _ = sessions.Shutdown() })

	_, err := sessions.Create()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		runSessionCleanup(ctx, sessions, 5*time.Millisecond, log)
	}()

	assert.Eventually(t, func() bool { return sessions.Count() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
