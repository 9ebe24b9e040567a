package sse

import (
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/shelfscout/shelfscout/internal/errors"
	"github.com/shelfscout/shelfscout/internal/id"
	"github.com/shelfscout/shelfscout/internal/metrics"
)

// DefaultHeartbeatInterval is how often idle streams receive a heartbeat.
const DefaultHeartbeatInterval = 30 * time.Second

// Client represents a connected SSE client.
type Client struct {
	ConnectedAt time.Time
	Done        chan struct{}
	ID          string
	SessionID   string
}

// Manager tracks connected stream clients so they can be counted and
// closed together on shutdown. State delivery itself goes through each
// session's subscription.
type Manager struct {
	clients           map[string]*Client
	logger            *slog.Logger
	heartbeatInterval time.Duration
	mu                sync.RWMutex
	shutdown          bool
}

// NewManager creates a new SSE Manager.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		clients:           make(map[string]*Client),
		logger:            logger,
		heartbeatInterval: DefaultHeartbeatInterval,
	}
}

// SetHeartbeatInterval overrides the heartbeat period. Non-positive values are ignored.
func (m *Manager) SetHeartbeatInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	m.heartbeatInterval = d
	m.mu.Unlock()
}

// HeartbeatInterval returns the heartbeat period.
func (m *Manager) HeartbeatInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.heartbeatInterval
}

// Connect registers a new SSE client streaming the given session.
func (m *Manager) Connect(sessionID string) (*Client, error) {
	clientID, err := id.Generate("sse")
	if err != nil {
		return nil, err
	}

	client := &Client{
		ID:          clientID,
		SessionID:   sessionID,
		Done:        make(chan struct{}),
		ConnectedAt: time.Now(),
	}

	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return nil, errors.Unavailable("server is shutting down")
	}
	m.clients[client.ID] = client
	totalClients := len(m.clients)
	m.mu.Unlock()

	metrics.ActiveStreams.Set(float64(totalClients))
	m.logger.Info("SSE client connected",
		slog.String("client_id", clientID),
		slog.String("session_id", sessionID),
		slog.Int("total_clients", totalClients))
	return client, nil
}

// Disconnect removes a client and closes its Done channel.
func (m *Manager) Disconnect(clientID string) {
	m.mu.Lock()
	client, ok := m.clients[clientID]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.clients, clientID)
	totalClients := len(m.clients)
	m.mu.Unlock()

	close(client.Done)
	metrics.ActiveStreams.Set(float64(totalClients))

	m.logger.Info("SSE client disconnected",
		slog.String("client_id", clientID),
		slog.Duration("duration", time.Since(client.ConnectedAt)),
		slog.Int("total_clients", totalClients))
}

// Clients returns an iterator over all connected clients.
func (m *Manager) Clients() iter.Seq[*Client] {
	return func(yield func(*Client) bool) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		for _, client := range m.clients {
			if !yield(client) {
				return
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Shutdown closes every client and refuses new connections.
// Implements do.Shutdowner.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	m.shutdown = true
	m.mu.Unlock()

	m.closeAllClients()
	return nil
}

// closeAllClients closes all client connections (used during shutdown).
func (m *Manager) closeAllClients() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, client := range m.clients {
		close(client.Done)
	}
	m.clients = make(map[string]*Client)
	metrics.ActiveStreams.Set(0)

	m.logger.Info("all SSE clients disconnected")
}
