// Package catalog defines the book lookup port used by the search orchestrator
// and the error taxonomy shared by its adapters.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shelfscout/shelfscout/internal/domain"
)

// Searcher looks books up in a remote catalog.
//
// Implementations must be safe for concurrent use, must honor ctx
// cancellation, and must reject blank terms with ErrBlankTerm without
// touching the network. A nil error with an empty slice means no matches.
type Searcher interface {
	Search(ctx context.Context, term string, scope domain.Scope) ([]domain.Book, error)
}

// SearchFunc adapts a plain function to Searcher.
type SearchFunc func(ctx context.Context, term string, scope domain.Scope) ([]domain.Book, error)

// Search implements Searcher.
func (f SearchFunc) Search(ctx context.Context, term string, scope domain.Scope) ([]domain.Book, error) {
	return f(ctx, term, scope)
}

// Provider names a catalog backend.
type Provider string

// Known providers.
const (
	ProviderGoogleBooks Provider = "googlebooks"
	ProviderOpenLibrary Provider = "openlibrary"
)

// Valid returns true if this is a known provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGoogleBooks, ProviderOpenLibrary:
		return true
	}
	return false
}

// Sentinel errors for catalog lookups.
var (
	ErrBlankTerm   = errors.New("search term is blank")
	ErrBadRequest  = errors.New("catalog rejected the request")
	ErrRateLimited = errors.New("catalog rate limit exceeded")
	ErrServer      = errors.New("catalog server error")
	ErrMalformed   = errors.New("catalog returned a malformed response")
	ErrUnavailable = errors.New("catalog is unreachable")
)

// Error wraps an underlying error with lookup context.
type Error struct {
	Op       string // Operation: "search"
	Provider Provider
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError creates an Error with context. A nil err stays nil.
func WrapError(op string, provider Provider, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Provider: provider, Err: err}
}

// StatusLabel classifies err for metrics labels.
func StatusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrBlankTerm), errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrServer):
		return "server_error"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return "unavailable"
	default:
		return "error"
	}
}
