package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shelfscout/shelfscout/internal/http/response"
	"github.com/shelfscout/shelfscout/internal/session"
)

// SessionFinder resolves a session id.
type SessionFinder interface {
	Get(sessionID string) (*session.Session, error)
}

// Handler handles SSE connections at GET /api/v1/sessions/{id}/stream.
type Handler struct {
	manager  *Manager
	sessions SessionFinder
	logger   *slog.Logger
}

// NewHandler creates a new SSE Handler.
func NewHandler(manager *Manager, sessions SessionFinder, logger *slog.Logger) *Handler {
	return &Handler{
		manager:  manager,
		sessions: sessions,
		logger:   logger,
	}
}

// ServeHTTP streams the session's state snapshots, starting with the
// current one.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w, "Method not allowed", h.logger)
		return
	}

	// Check if request context is already canceled (early client disconnect).
	if r.Context().Err() != nil {
		return
	}

	sessionID := chi.URLParam(r, "id")
	sess, err := h.sessions.Get(sessionID)
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	rc := http.NewResponseController(w)

	// Flush headers immediately.
	if err := rc.Flush(); err != nil {
		h.logger.Error("failed to flush headers", slog.String("error", err.Error()))
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	client, err := h.manager.Connect(sessionID)
	if err != nil {
		h.logger.Error("failed to register SSE client", slog.String("error", err.Error()))
		return
	}
	defer h.manager.Disconnect(client.ID)

	clientLogger := h.logger.With(
		slog.String("client_id", client.ID),
		slog.String("session_id", sessionID))

	ctx := r.Context()
	sub := sess.Search.Subscribe(ctx)
	defer sub.Close()

	if err := h.sendEvent(w, rc, NewConnectedEvent(client.ID, sessionID)); err != nil {
		clientLogger.Warn("failed to send initial connection message", slog.String("error", err.Error()))
		return
	}

	heartbeatTicker := time.NewTicker(h.manager.HeartbeatInterval())
	defer heartbeatTicker.Stop()

	for {
		select {
		case st, ok := <-sub.C():
			if !ok {
				// Subscription ended without the client leaving: the session closed.
				if ctx.Err() == nil {
					_ = h.sendEvent(w, rc, NewClosedEvent(sessionID, "session closed"))
				}
				clientLogger.Info("search session closed")
				return
			}
			if err := h.sendEvent(w, rc, NewStateEvent(st)); err != nil {
				// Client disconnect is normal, not an error condition.
				clientLogger.Info("client disconnected during send")
				return
			}

		case <-heartbeatTicker.C:
			if err := h.sendEvent(w, rc, NewHeartbeatEvent()); err != nil {
				clientLogger.Info("client disconnected during heartbeat")
				return
			}

		case <-client.Done:
			// Manager closed this client (server shutdown).
			_ = h.sendEvent(w, rc, NewClosedEvent(sessionID, "server shutting down"))
			clientLogger.Info("client closed by manager")
			return

		case <-ctx.Done():
			clientLogger.Info("client context canceled")
			return
		}
	}
}

// sendEvent writes one SSE frame and flushes it.
func (h *Handler) sendEvent(w http.ResponseWriter, rc *http.ResponseController, event Event) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\n", event.Type); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", jsonData); err != nil {
		return err
	}

	if err := rc.Flush(); err != nil {
		return err
	}

	// Reset after each successful write so hung connections time out.
	if err := rc.SetWriteDeadline(time.Now().Add(60 * time.Second)); err != nil {
		// SetWriteDeadline may not be supported by all ResponseWriters.
		h.logger.Debug("failed to set write deadline", slog.String("error", err.Error()))
	}

	return nil
}
