// Package config provides application configuration management with support for a TOML
// config file, .env files, environment variables, and command-line flags.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shelfscout/shelfscout/internal/catalog"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Catalog CatalogConfig
	Search  SearchConfig
	Server  ServerConfig

	// ConfigFile is the TOML file that was loaded, if any.
	ConfigFile string
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
	File  string // Optional; the terminal UI always logs to a file
}

// CatalogConfig selects and tunes the remote book catalog.
type CatalogConfig struct {
	Provider           catalog.Provider
	GoogleBooksAPIKey  string // Optional
	GoogleBooksBaseURL string
	OpenLibraryBaseURL string
	MaxResults         int           // 1..40 (default: 40)
	Timeout            time.Duration // HTTP timeout per lookup (default: 30s)
	LangRestrict       string        // Optional ISO 639-1 code
}

// SearchConfig holds orchestrator and session configuration.
type SearchConfig struct {
	Debounce    time.Duration // Quiet period before a lookup (default: 500ms)
	SessionTTL  time.Duration // Idle lifetime of an API session (default: 30m)
	MaxSessions int           // Open API sessions (default: 1000)
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Allowed origins (default: *)
	RateLimit    int           // Mutation requests per minute per IP (default: 600)
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. TOML config file.
// 5. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("shelfscout", flag.ContinueOnError)

	configFile := fs.String("config", "", "Path to TOML config file")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := fs.String("log-file", "", "Write logs to this file")

	provider := fs.String("provider", "", "Catalog provider (googlebooks, openlibrary)")
	apiKey := fs.String("google-books-api-key", "", "Google Books API key")
	maxResults := fs.String("max-results", "", "Results per lookup (default: 40)")
	catalogTimeout := fs.String("catalog-timeout", "", "Catalog HTTP timeout (default: 30s)")
	langRestrict := fs.String("lang", "", "Restrict results to an ISO 639-1 language")

	debounce := fs.String("debounce", "", "Quiet period before searching (default: 500ms)")
	sessionTTL := fs.String("session-ttl", "", "Idle lifetime of API sessions (default: 30m)")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed origins (default: *)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	file, path, err := loadFileConfig(getConfigValue(*configFile, "SHELFSCOUT_CONFIG", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ConfigFile: path,
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", or(file.App.Environment, "development")),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", or(file.Logger.Level, "info")),
			File:  getConfigValue(*logFile, "LOG_FILE", file.Logger.File),
		},
		Catalog: CatalogConfig{
			Provider:           catalog.Provider(getConfigValue(*provider, "CATALOG_PROVIDER", or(file.Catalog.Provider, string(catalog.ProviderGoogleBooks)))),
			GoogleBooksAPIKey:  getConfigValue(*apiKey, "GOOGLE_BOOKS_API_KEY", file.Catalog.GoogleBooksAPIKey),
			GoogleBooksBaseURL: getConfigValue("", "GOOGLE_BOOKS_BASE_URL", file.Catalog.GoogleBooksBaseURL),
			OpenLibraryBaseURL: getConfigValue("", "OPEN_LIBRARY_BASE_URL", file.Catalog.OpenLibraryBaseURL),
			LangRestrict:       getConfigValue(*langRestrict, "CATALOG_LANG_RESTRICT", file.Catalog.LangRestrict),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", or(file.Server.Port, "8080")),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", strings.Join(file.Server.CORSOrigins, ","))),
		},
	}

	if cfg.Catalog.MaxResults, err = getIntConfigValue(*maxResults, "CATALOG_MAX_RESULTS", orInt(file.Catalog.MaxResults, 40)); err != nil {
		return nil, err
	}
	if cfg.Search.MaxSessions, err = getIntConfigValue("", "MAX_SESSIONS", orInt(file.Search.MaxSessions, 1000)); err != nil {
		return nil, err
	}
	if cfg.Server.RateLimit, err = getIntConfigValue("", "RATE_LIMIT", orInt(file.Server.RateLimit, 600)); err != nil {
		return nil, err
	}

	durations := []struct {
		dst      *time.Duration
		flag     string
		envKey   string
		fileVal  string
		fallback string
	}{
		{&cfg.Catalog.Timeout, *catalogTimeout, "CATALOG_TIMEOUT", file.Catalog.Timeout, "30s"},
		{&cfg.Search.Debounce, *debounce, "SEARCH_DEBOUNCE", file.Search.Debounce, "500ms"},
		{&cfg.Search.SessionTTL, *sessionTTL, "SESSION_TTL", file.Search.SessionTTL, "30m"},
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", file.Server.ReadTimeout, "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", file.Server.WriteTimeout, "15s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", file.Server.IdleTimeout, "60s"},
	}
	for _, d := range durations {
		if *d.dst, err = getDurationConfigValue(d.flag, d.envKey, or(d.fileVal, d.fallback)); err != nil {
			return nil, err
		}
	}

	if cfg.Logger.File != "" {
		if cfg.Logger.File, err = expandPath(cfg.Logger.File, ""); err != nil {
			return nil, fmt.Errorf("invalid log file path: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if !c.Catalog.Provider.Valid() {
		return fmt.Errorf("invalid catalog provider: %s (must be googlebooks or openlibrary)", c.Catalog.Provider)
	}
	if c.Catalog.MaxResults < 1 || c.Catalog.MaxResults > 40 {
		return fmt.Errorf("invalid max results: %d (must be between 1 and 40)", c.Catalog.MaxResults)
	}
	if c.Catalog.Timeout <= 0 {
		return errors.New("catalog timeout must be positive")
	}

	if c.Search.Debounce <= 0 {
		return errors.New("search debounce must be positive")
	}
	if c.Search.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if c.Search.MaxSessions <= 0 {
		return errors.New("max sessions must be positive")
	}

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
// The default already carries the config file value when one is set.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envKey != "" {
		if envValue := os.Getenv(envKey); envValue != "" {
			return envValue
		}
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) (int, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), strValue, err)
	}
	return result, nil
}

// getDurationConfigValue returns a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), strValue, err)
	}
	return d, nil
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func orInt(value, fallback int) int {
	if value != 0 {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
