package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscout/shelfscout/internal/domain"
	"github.com/shelfscout/shelfscout/internal/metrics"
)

func TestError_WrapsCause(t *testing.T) {
	err := WrapError("search", ProviderGoogleBooks, fmt.Errorf("%w (HTTP 503)", ErrServer))

	assert.Equal(t, "googlebooks search: catalog server error (HTTP 503)", err.Error())
	assert.ErrorIs(t, err, ErrServer)

	var catErr *Error
	require.True(t, errors.As(err, &catErr))
	assert.Equal(t, ProviderGoogleBooks, catErr.Provider)

	assert.NoError(t, WrapError("search", ProviderGoogleBooks, nil))
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{context.Canceled, "canceled"},
		{context.DeadlineExceeded, "unavailable"},
		{ErrBlankTerm, "bad_request"},
		{ErrBadRequest, "bad_request"},
		{ErrRateLimited, "rate_limited"},
		{WrapError("search", ProviderOpenLibrary, ErrServer), "server_error"},
		{ErrMalformed, "malformed"},
		{ErrUnavailable, "unavailable"},
		{errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusLabel(tt.err))
		})
	}
}

func TestProvider_Valid(t *testing.T) {
	assert.True(t, ProviderGoogleBooks.Valid())
	assert.True(t, ProviderOpenLibrary.Valid())
	assert.False(t, Provider("amazon").Valid())
}

func TestInstrumented_RecordsOutcome(t *testing.T) {
	books := []domain.Book{{ID: "1", Title: "Dune"}, {ID: "2", Title: "Dune Messiah"}}
	next := SearchFunc(func(_ context.Context, term string, _ domain.Scope) ([]domain.Book, error) {
		if term == "fail" {
			return nil, ErrRateLimited
		}
		return books, nil
	})
	s := NewInstrumented(next, "fake", slog.New(slog.DiscardHandler))

	okBefore := testutil.ToFloat64(metrics.CatalogRequestsTotal.WithLabelValues("fake", "title", "ok"))
	failBefore := testutil.ToFloat64(metrics.CatalogRequestsTotal.WithLabelValues("fake", "title", "rate_limited"))

	got, err := s.Search(context.Background(), "dune", domain.ScopeTitle)
	require.NoError(t, err)
	assert.Equal(t, books, got)

	_, err = s.Search(context.Background(), "fail", domain.ScopeTitle)
	assert.ErrorIs(t, err, ErrRateLimited)

	assert.InDelta(t, okBefore+1,
		testutil.ToFloat64(metrics.CatalogRequestsTotal.WithLabelValues("fake", "title", "ok")), 0.001)
	assert.InDelta(t, failBefore+1,
		testutil.ToFloat64(metrics.CatalogRequestsTotal.WithLabelValues("fake", "title", "rate_limited")), 0.001)
}
