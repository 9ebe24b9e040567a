package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config in the TOML file. Durations are strings
// such as "500ms" or "30m".
type fileConfig struct {
	App struct {
		Environment string `toml:"environment"`
	} `toml:"app"`

	Logger struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"logger"`

	Catalog struct {
		Provider           string `toml:"provider"`
		GoogleBooksAPIKey  string `toml:"google_books_api_key"`
		GoogleBooksBaseURL string `toml:"google_books_base_url"`
		OpenLibraryBaseURL string `toml:"open_library_base_url"`
		MaxResults         int    `toml:"max_results"`
		Timeout            string `toml:"timeout"`
		LangRestrict       string `toml:"lang_restrict"`
	} `toml:"catalog"`

	Search struct {
		Debounce    string `toml:"debounce"`
		SessionTTL  string `toml:"session_ttl"`
		MaxSessions int    `toml:"max_sessions"`
	} `toml:"search"`

	Server struct {
		Port         string   `toml:"port"`
		ReadTimeout  string   `toml:"read_timeout"`
		WriteTimeout string   `toml:"write_timeout"`
		IdleTimeout  string   `toml:"idle_timeout"`
		CORSOrigins  []string `toml:"cors_origins"`
		RateLimit    int      `toml:"rate_limit"`
	} `toml:"server"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/shelfscout/config.toml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "shelfscout", "config.toml"), nil
}

// loadFileConfig reads the TOML config file. An explicit path must exist;
// the default path is optional. It returns the path actually loaded.
func loadFileConfig(path string) (*fileConfig, string, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return &fileConfig{}, "", nil
		}
	}

	expanded, err := expandPath(path, "")
	if err != nil {
		return nil, "", fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(expanded) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &fileConfig{}, "", nil
		}
		return nil, "", fmt.Errorf("read config file: %w", err)
	}

	cfg, err := parseFileConfig(data)
	if err != nil {
		return nil, "", fmt.Errorf("parse config file %s: %w", expanded, err)
	}
	return cfg, expanded, nil
}

// parseFileConfig decodes TOML and rejects unknown keys so typos surface.
func parseFileConfig(data []byte) (*fileConfig, error) {
	var cfg fileConfig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, errors.New(strict.String())
		}
		return nil, err
	}
	return &cfg, nil
}
