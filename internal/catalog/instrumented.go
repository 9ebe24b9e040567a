package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shelfscout/shelfscout/internal/domain"
	"github.com/shelfscout/shelfscout/internal/metrics"
)

// Instrumented decorates a Searcher with Prometheus metrics and failure logs.
type Instrumented struct {
	next     Searcher
	provider Provider
	logger   *slog.Logger
	now      func() time.Time
}

// NewInstrumented wraps next.
func NewInstrumented(next Searcher, provider Provider, logger *slog.Logger) *Instrumented {
	return &Instrumented{
		next:     next,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// Search implements Searcher.
func (s *Instrumented) Search(ctx context.Context, term string, scope domain.Scope) ([]domain.Book, error) {
	start := s.now()
	books, err := s.next.Search(ctx, term, scope)
	elapsed := s.now().Sub(start)

	provider := string(s.provider)
	metrics.CatalogRequestsTotal.WithLabelValues(provider, scope.String(), StatusLabel(err)).Inc()
	metrics.CatalogRequestDuration.WithLabelValues(provider).Observe(elapsed.Seconds())

	if err != nil {
		// Cancellation is how superseded lookups end; not a failure.
		if errors.Is(err, context.Canceled) {
			s.logger.Debug("catalog lookup canceled", "provider", provider, "term", term)
		} else {
			s.logger.Warn("catalog lookup failed",
				"provider", provider,
				"term", term,
				"scope", scope.String(),
				"duration", elapsed,
				"error", err,
			)
		}
		return nil, err
	}

	metrics.CatalogResults.WithLabelValues(provider).Observe(float64(len(books)))
	s.logger.Debug("catalog lookup finished",
		"provider", provider,
		"term", term,
		"scope", scope.String(),
		"count", len(books),
		"duration", elapsed,
	)
	return books, nil
}
