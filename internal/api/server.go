// Package api provides the HTTP API server and handlers for remote search sessions.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfscout/shelfscout/internal/http/response"
	"github.com/shelfscout/shelfscout/internal/metrics"
	"github.com/shelfscout/shelfscout/internal/ratelimit"
	"github.com/shelfscout/shelfscout/internal/session"
	"github.com/shelfscout/shelfscout/internal/sse"
	"github.com/shelfscout/shelfscout/internal/validation"
)

// Config holds HTTP surface settings.
type Config struct {
	CORSOrigins []string
	// Mutation routes allow RateLimit requests per minute per client IP.
	RateLimit      int
	RateLimitBurst int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	sessions    *session.Manager
	sseManager  *sse.Manager
	sseHandler  *sse.Handler
	validator   *validation.Validator
	rateLimiter *ratelimit.KeyedRateLimiter
	router      *chi.Mux
	api         huma.API
	cfg         Config
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(sessions *session.Manager, sseManager *sse.Manager, cfg Config, logger *slog.Logger) *Server {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 600
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 60
	}

	s := &Server{
		sessions:    sessions,
		sseManager:  sseManager,
		sseHandler:  sse.NewHandler(sseManager, sessions, logger),
		validator:   validation.New(),
		rateLimiter: NewRateLimiter(cfg.RateLimit, time.Minute, cfg.RateLimitBurst),
		router:      chi.NewRouter(),
		cfg:         cfg,
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Shutdown stops background work owned by the server.
func (s *Server) Shutdown() error {
	s.rateLimiter.Stop()
	return nil
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Middleware())

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	humaConfig := huma.DefaultConfig("Shelfscout API", "1.0.0")
	humaConfig.Info.Description = "Debounced book search sessions with a live state stream"
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerSessionRoutes()

	// Streaming and exposition stay on plain chi handlers.
	s.router.Get("/api/v1/sessions/{id}/stream", s.sseHandler.ServeHTTP)
	s.router.Handle("/metrics", metrics.Handler())

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "Method not allowed", s.logger)
	})
}
