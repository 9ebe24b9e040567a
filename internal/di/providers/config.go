// Package providers contains dependency injection providers for shelfscout.
package providers

import (
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/shelfscout/shelfscout/internal/config"
	"github.com/shelfscout/shelfscout/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger. It writes to stdout unless a
// log file is configured.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log, err := newLogger(cfg, cfg.Logger.File)
	if err != nil {
		return nil, err
	}

	log.Info("Starting shelfscout",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"provider", cfg.Catalog.Provider,
		"config_file", cfg.ConfigFile,
	)

	return log, nil
}

// ProvideFileLogger provides a logger for the terminal client, which owns
// stdout. Without a configured file it logs under the user cache directory.
func ProvideFileLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	path := cfg.Logger.File
	if path == "" {
		path = DefaultLogPath()
	}

	log, err := newLogger(cfg, path)
	if err != nil {
		return nil, err
	}

	log.Info("Starting shelfscout terminal client",
		"environment", cfg.App.Environment,
		"provider", cfg.Catalog.Provider,
		"log_file", path,
	)

	return log, nil
}

// DefaultLogPath returns the terminal client's log file location.
func DefaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "shelfscout", "shelfscout.log")
}

func newLogger(cfg *config.Config, path string) (*logger.Logger, error) {
	logCfg := logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	}
	if path == "" {
		return logger.New(logCfg), nil
	}
	return logger.NewFile(path, logCfg)
}
