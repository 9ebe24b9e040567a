// Package openlibrary implements catalog.Searcher against the Open Library search API.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/shelfscout/shelfscout/internal/catalog"
)

const (
	// DefaultBaseURL is the public Open Library root.
	DefaultBaseURL = "https://openlibrary.org"

	coverBaseURL = "https://covers.openlibrary.org/b/id/"

	defaultLimit   = 40
	maxLimit       = 100
	defaultTimeout = 30 * time.Second
)

// Config holds client settings. Zero values select defaults.
type Config struct {
	BaseURL   string
	Limit     int
	Timeout   time.Duration
	UserAgent string
}

// Client provides access to the Open Library search API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	cfg         Config
}

// NewClient creates a new Open Library client.
// Rate limited to 1 request per second with a burst of 3, per the API's
// guidance for unauthenticated clients.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if cfg.Limit > maxLimit {
		cfg.Limit = maxLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "shelfscout/1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(1), 3),
		logger:      logger,
		cfg:         cfg,
	}
}

// wait blocks until rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

// get performs a GET and decodes a JSON body into v.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	reqURL := c.cfg.BaseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", catalog.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest:
		return catalog.ErrBadRequest
	case resp.StatusCode == http.StatusTooManyRequests:
		return catalog.ErrRateLimited
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w (HTTP %d)", catalog.ErrServer, resp.StatusCode)
	default:
		return fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", catalog.ErrMalformed, err)
	}
	return nil
}
