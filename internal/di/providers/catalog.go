package providers

import (
	"fmt"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/shelfscout/shelfscout/internal/catalog"
	"github.com/shelfscout/shelfscout/internal/catalog/googlebooks"
	"github.com/shelfscout/shelfscout/internal/catalog/openlibrary"
	"github.com/shelfscout/shelfscout/internal/config"
	"github.com/shelfscout/shelfscout/internal/logger"
)

// CatalogHandle wraps the configured catalog searcher with shutdown capability.
type CatalogHandle struct {
	catalog.Searcher
	close func()
}

// Shutdown implements do.Shutdownable.
func (h *CatalogHandle) Shutdown() error {
	if h.close != nil {
		h.close()
	}
	return nil
}

// NewSearcher builds the adapter named by cfg.Provider, instrumented with
// metrics and logging.
func NewSearcher(cfg config.CatalogConfig, log *slog.Logger) (*CatalogHandle, error) {
	switch cfg.Provider {
	case catalog.ProviderGoogleBooks:
		client := googlebooks.New(googlebooks.Config{
			BaseURL:      cfg.GoogleBooksBaseURL,
			APIKey:       cfg.GoogleBooksAPIKey,
			MaxResults:   cfg.MaxResults,
			LangRestrict: cfg.LangRestrict,
			Timeout:      cfg.Timeout,
		}, log)
		return &CatalogHandle{
			Searcher: catalog.NewInstrumented(client, cfg.Provider, log),
			close:    client.Close,
		}, nil

	case catalog.ProviderOpenLibrary:
		client := openlibrary.NewClient(openlibrary.Config{
			BaseURL: cfg.OpenLibraryBaseURL,
			Limit:   cfg.MaxResults,
			Timeout: cfg.Timeout,
		}, log)
		return &CatalogHandle{
			Searcher: catalog.NewInstrumented(client, cfg.Provider, log),
		}, nil

	default:
		return nil, fmt.Errorf("unknown catalog provider: %q", cfg.Provider)
	}
}

// ProvideCatalog provides the catalog searcher selected by configuration.
func ProvideCatalog(i do.Injector) (*CatalogHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	handle, err := NewSearcher(cfg.Catalog, log.WithComponent("catalog").Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Catalog client initialized",
		"provider", cfg.Catalog.Provider,
		"max_results", cfg.Catalog.MaxResults,
		"timeout", cfg.Catalog.Timeout,
	)

	return handle, nil
}
