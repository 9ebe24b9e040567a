package search

import (
	"fmt"

	"github.com/shelfscout/shelfscout/internal/domain"
)

// Kind names a State variant on the wire.
type Kind string

// State kinds.
const (
	KindIdle    Kind = "idle"
	KindLoading Kind = "loading"
	KindSuccess Kind = "success"
	KindEmpty   Kind = "empty"
	KindError   Kind = "error"
)

// State is a snapshot of a search session. It is a closed set: the only
// implementations are Idle, Loading, Success, Empty and Error, so a type
// switch over those five is exhaustive.
//
// Published snapshots are never modified.
type State interface {
	Kind() Kind
	state()
}

// Idle means no query text is entered.
type Idle struct{}

// Loading means a lookup is in flight for Query and Scope.
type Loading struct {
	Query string
	Scope domain.Scope
}

// Success carries at least one book, in the order the catalog returned them.
type Success struct {
	Books []domain.Book
	Query string
	Scope domain.Scope
}

// Empty means the lookup for Query matched nothing.
type Empty struct {
	Query string
}

// Error means the lookup for Query failed.
type Error struct {
	Message string
	Query   string
}

func (Idle) Kind() Kind    { return KindIdle }
func (Loading) Kind() Kind { return KindLoading }
func (Success) Kind() Kind { return KindSuccess }
func (Empty) Kind() Kind   { return KindEmpty }
func (Error) Kind() Kind   { return KindError }

func (Idle) state()    {}
func (Loading) state() {}
func (Success) state() {}
func (Empty) state()   {}
func (Error) state()   {}

// Message is the text shown when nothing matched.
func (e Empty) Message() string {
	return "No books found for: " + e.Query
}

// UnknownErrorMessage is used when a failed lookup carries no message.
const UnknownErrorMessage = "Unknown error while searching books"

// QueryOf returns the query a state refers to, or "" for Idle.
func QueryOf(s State) string {
	switch s := s.(type) {
	case Loading:
		return s.Query
	case Success:
		return s.Query
	case Empty:
		return s.Query
	case Error:
		return s.Query
	default:
		return ""
	}
}

// Describe renders a short human-readable summary, used in logs.
func Describe(s State) string {
	switch s := s.(type) {
	case Idle:
		return "idle"
	case Loading:
		return fmt.Sprintf("loading %q in %s", s.Query, s.Scope)
	case Success:
		return fmt.Sprintf("%d book(s) for %q in %s", len(s.Books), s.Query, s.Scope)
	case Empty:
		return fmt.Sprintf("no books for %q", s.Query)
	case Error:
		return fmt.Sprintf("error for %q: %s", s.Query, s.Message)
	default:
		return fmt.Sprintf("unknown state %T", s)
	}
}

// errorMessage derives the user-visible text for a failed lookup.
func errorMessage(err error) string {
	if err == nil {
		return UnknownErrorMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnknownErrorMessage
}
