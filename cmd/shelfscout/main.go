// Package main provides the shelfscout terminal client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/shelfscout/shelfscout/internal/config"
	"github.com/shelfscout/shelfscout/internal/di"
	"github.com/shelfscout/shelfscout/internal/di/providers"
	"github.com/shelfscout/shelfscout/internal/logger"
	"github.com/shelfscout/shelfscout/internal/search"
	"github.com/shelfscout/shelfscout/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "shelfscout: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	injector := di.NewTerminalContainer()
	if err := di.BootstrapTerminal(injector); err != nil {
		return err
	}
	defer func() { _ = injector.Shutdown() }()

	cfg := do.MustInvoke[*config.Config](injector)
	log := do.MustInvoke[*logger.Logger](injector)
	defer func() { _ = log.Close() }()
	catalogHandle := do.MustInvoke[*providers.CatalogHandle](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch := search.New(catalogHandle, log.Logger, search.WithDebounce(cfg.Search.Debounce))
	defer orch.Close()

	if err := tui.Run(ctx, orch, log.Logger); err != nil {
		log.Error("terminal client failed", "error", err)
		return err
	}
	log.Info("terminal client exited")
	return nil
}
