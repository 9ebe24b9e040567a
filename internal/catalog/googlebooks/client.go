// Package googlebooks implements catalog.Searcher against the Google Books volumes API.
package googlebooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shelfscout/shelfscout/internal/catalog"
	"github.com/shelfscout/shelfscout/internal/ratelimit"
)

const (
	// DefaultBaseURL is the public Google Books API root.
	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	// Rate limit: 2 requests per second per API key, burst of 5
	defaultRPS   = 2.0
	defaultBurst = 5

	defaultTimeout = 30 * time.Second

	// API settings
	defaultMaxResults = 40
	maxMaxResults     = 40

	// maxErrorBody bounds how much of an error response is quoted.
	maxErrorBody = 512

	anonymousKey = "anonymous"
)

// Config holds client settings. Zero values select defaults.
type Config struct {
	BaseURL      string
	APIKey       string
	MaxResults   int
	LangRestrict string
	Timeout      time.Duration
	UserAgent    string
}

// Client is a rate-limited Google Books API client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
	cfg     Config
}

// New creates a new Google Books client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.MaxResults > maxMaxResults {
		cfg.MaxResults = maxMaxResults
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "shelfscout/1.0"
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
		cfg:     cfg,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// Shutdown implements do.Shutdowner.
func (c *Client) Shutdown() error {
	c.Close()
	return nil
}

func (c *Client) limiterKey() string {
	if c.cfg.APIKey == "" {
		return anonymousKey
	}
	return c.cfg.APIKey
}

// doRequest executes a GET against the API with rate limiting and returns the body.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, c.limiterKey()); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.cfg.BaseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	c.logger.Debug("google books request",
		"path", path,
		"q", query.Get("q"),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", catalog.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: read response: %w", catalog.ErrUnavailable, err)
	}

	return body, statusError(resp.StatusCode, body)
}

// statusError maps an HTTP status to the catalog error taxonomy.
func statusError(status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusBadRequest:
		return catalog.ErrBadRequest
	case status == http.StatusForbidden, status == http.StatusTooManyRequests:
		return catalog.ErrRateLimited
	case status >= 500:
		return fmt.Errorf("%w (HTTP %d)", catalog.ErrServer, status)
	default:
		return fmt.Errorf("unexpected status %d: %s", status, apiMessage(body))
	}
}

// apiMessage extracts a readable message from an error body.
func apiMessage(body []byte) string {
	var env errorEnvelope
	if err := decode(body, &env); err == nil && env.Error.Message != "" {
		return env.Error.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
