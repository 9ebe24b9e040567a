package domain

import "fmt"

// Scope selects which catalog fields a query is matched against.
type Scope int

const (
	// ScopeAll matches the term against every field.
	ScopeAll Scope = iota
	// ScopeTitle matches the term against titles only.
	ScopeTitle
	// ScopeAuthor matches the term against author names only.
	ScopeAuthor
)

// AllScopes returns every scope in display order.
func AllScopes() []Scope {
	return []Scope{ScopeAll, ScopeTitle, ScopeAuthor}
}

// String returns the wire name of the scope.
func (s Scope) String() string {
	switch s {
	case ScopeAll:
		return "all"
	case ScopeTitle:
		return "title"
	case ScopeAuthor:
		return "author"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// Label returns a human-readable name for the scope.
func (s Scope) Label() string {
	switch s {
	case ScopeTitle:
		return "Title"
	case ScopeAuthor:
		return "Author"
	default:
		return "All"
	}
}

// Valid returns true if this is a recognized scope.
func (s Scope) Valid() bool {
	switch s {
	case ScopeAll, ScopeTitle, ScopeAuthor:
		return true
	}
	return false
}

// Next returns the following scope, wrapping around.
func (s Scope) Next() Scope {
	switch s {
	case ScopeAll:
		return ScopeTitle
	case ScopeTitle:
		return ScopeAuthor
	default:
		return ScopeAll
	}
}

// ParseScope converts a wire name into a Scope.
// An empty string means ScopeAll.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "", "all":
		return ScopeAll, nil
	case "title":
		return ScopeTitle, nil
	case "author":
		return ScopeAuthor, nil
	default:
		return ScopeAll, fmt.Errorf("unknown search scope %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid search scope %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scope) UnmarshalText(text []byte) error {
	parsed, err := ParseScope(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
