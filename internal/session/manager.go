// Package session keeps one search orchestrator per remote client.
package session

import (
	"iter"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shelfscout/shelfscout/internal/catalog"
	"github.com/shelfscout/shelfscout/internal/errors"
	"github.com/shelfscout/shelfscout/internal/id"
	"github.com/shelfscout/shelfscout/internal/metrics"
	"github.com/shelfscout/shelfscout/internal/search"
)

const (
	// DefaultTTL is how long an untouched session lives.
	DefaultTTL = 30 * time.Minute
	// DefaultMaxSessions bounds concurrent sessions.
	DefaultMaxSessions = 1000

	idPrefix = "srch"
)

// Session is a search session owned by one remote client.
type Session struct {
	ID        string
	CreatedAt time.Time
	Search    *search.Orchestrator

	lastSeen atomic.Int64 // unix nanoseconds
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// Config holds session manager settings. Zero values select defaults.
type Config struct {
	TTL         time.Duration
	Debounce    time.Duration
	MaxSessions int
}

// Manager creates, finds and expires sessions.
type Manager struct {
	searcher catalog.Searcher
	logger   *slog.Logger
	cfg      Config
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
	shutdown bool
}

// NewManager creates a session manager whose sessions search with searcher.
func NewManager(searcher catalog.Searcher, cfg Config, logger *slog.Logger) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	return &Manager{
		searcher: searcher,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// TTL returns the idle lifetime of a session.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

// MaxSessions returns the session limit.
func (m *Manager) MaxSessions() int {
	return m.cfg.MaxSessions
}

// Create starts a new session in the Idle state.
func (m *Manager) Create() (*Session, error) {
	sessionID, err := id.Generate(idPrefix)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate session id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown {
		return nil, errors.Unavailable("server is shutting down")
	}
	if len(m.sessions) >= m.cfg.MaxSessions {
		return nil, errors.RateLimited("too many open search sessions")
	}

	now := m.now()
	sess := &Session{
		ID:        sessionID,
		CreatedAt: now,
		Search: search.New(m.searcher,
			m.logger.With("session_id", sessionID),
			search.WithDebounce(m.cfg.Debounce),
		),
	}
	sess.touch(now)
	m.sessions[sessionID] = sess
	total := len(m.sessions)

	metrics.ActiveSessions.Set(float64(total))
	m.logger.Info("search session created",
		slog.String("session_id", sessionID),
		slog.Int("total_sessions", total))
	return sess, nil
}

// Get returns the session and marks it as used.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[sessionID]
	m.mu.RUnlock()

	if !ok {
		return nil, errors.NotFoundf("search session %s not found", sessionID)
	}
	sess.touch(m.now())
	return sess, nil
}

// Close ends a session and its subscriptions.
func (m *Manager) Close(sessionID string) error {
	m.mu.Lock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return errors.NotFoundf("search session %s not found", sessionID)
	}
	delete(m.sessions, sessionID)
	total := len(m.sessions)
	m.mu.Unlock()

	sess.Search.Close()
	metrics.ActiveSessions.Set(float64(total))
	m.logger.Info("search session closed",
		slog.String("session_id", sessionID),
		slog.Duration("duration", m.now().Sub(sess.CreatedAt)),
		slog.Int("total_sessions", total))
	return nil
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sessions returns an iterator over open sessions.
func (m *Manager) Sessions() iter.Seq[*Session] {
	return func(yield func(*Session) bool) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		for _, sess := range m.sessions {
			if !yield(sess) {
				return
			}
		}
	}
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// were closed. A session with a connected stream is never idle.
func (m *Manager) Sweep() int {
	now := m.now()
	cutoff := now.Add(-m.cfg.TTL)

	var expired []*Session
	m.mu.Lock()
	for sid, sess := range m.sessions {
		if sess.Search.Subscribers() > 0 {
			sess.touch(now)
			continue
		}
		if sess.LastSeen().Before(cutoff) {
			expired = append(expired, sess)
			delete(m.sessions, sid)
		}
	}
	total := len(m.sessions)
	m.mu.Unlock()

	for _, sess := range expired {
		sess.Search.Close()
		m.logger.Debug("search session expired", slog.String("session_id", sess.ID))
	}
	metrics.ActiveSessions.Set(float64(total))
	return len(expired)
}

// Shutdown closes every session and refuses new ones.
// Implements do.Shutdowner.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	m.shutdown = true
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.Search.Close()
	}
	metrics.ActiveSessions.Set(0)
	m.logger.Info("all search sessions closed", slog.Int("count", len(sessions)))
	return nil
}
