// Package di provides dependency injection configuration for shelfscout.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shelfscout/shelfscout/internal/api"
	"github.com/shelfscout/shelfscout/internal/config"
	"github.com/shelfscout/shelfscout/internal/di/providers"
	"github.com/shelfscout/shelfscout/internal/logger"
	"github.com/shelfscout/shelfscout/internal/session"
	"github.com/shelfscout/shelfscout/internal/sse"
)

// NewContainer creates and configures the DI container for the API server.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Catalog
	do.Provide(injector, providers.ProvideCatalog)

	// Sessions and streaming
	do.Provide(injector, providers.ProvideSessionManager)
	do.Provide(injector, providers.ProvideSSEManager)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideAPIServer)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// NewTerminalContainer creates the DI container for the terminal client.
// It logs to a file and has no server components.
func NewTerminalContainer() *do.RootScope {
	injector := do.New()

	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideFileLogger)
	do.Provide(injector, providers.ProvideCatalog)

	return injector
}

// Bootstrap initializes all API server services.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.CatalogHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*session.Manager](injector)
	_ = do.MustInvoke[*sse.Manager](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*api.Server](injector)
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	return nil
}

// BootstrapTerminal initializes the terminal client's services.
func BootstrapTerminal(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	_, err := do.Invoke[*providers.CatalogHandle](injector)
	return err
}
