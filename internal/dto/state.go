package dto

import (
	"time"

	"github.com/shelfscout/shelfscout/internal/search"
)

// SearchState is the wire form of a search.State snapshot.
// Only the fields relevant to Kind are set.
type SearchState struct {
	Kind      search.Kind `json:"kind"`
	Query     string      `json:"query,omitempty"`
	Scope     string      `json:"scope,omitempty"`
	Books     []Book      `json:"books,omitempty"`
	Count     int         `json:"count"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewSearchState converts a snapshot for clients.
func NewSearchState(st search.State) SearchState {
	out := SearchState{
		Kind:      st.Kind(),
		Query:     search.QueryOf(st),
		Timestamp: time.Now(),
	}

	switch s := st.(type) {
	case search.Idle:
	case search.Loading:
		out.Scope = s.Scope.String()
	case search.Success:
		out.Scope = s.Scope.String()
		out.Books = NewBooks(s.Books)
		out.Count = len(s.Books)
	case search.Empty:
		out.Message = s.Message()
	case search.Error:
		out.Message = s.Message
	}
	return out
}
