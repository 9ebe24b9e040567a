package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfscout/shelfscout/internal/domain"
	"github.com/shelfscout/shelfscout/internal/dto"
	domainerrors "github.com/shelfscout/shelfscout/internal/errors"
	"github.com/shelfscout/shelfscout/internal/session"
)

func (s *Server) registerSessionRoutes() {
	limited := huma.Middlewares{s.rateLimit}

	huma.Register(s.api, huma.Operation{
		OperationID:   "createSession",
		Method:        http.MethodPost,
		Path:          "/api/v1/sessions",
		Summary:       "Create search session",
		Description:   "Starts a search session in the idle state",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   limited,
	}, s.handleCreateSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Get session",
		Description: "Returns the current query, scope and state snapshot",
		Tags:        []string{"Sessions"},
	}, s.handleGetSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "setSessionQuery",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/query",
		Summary:     "Set query text",
		Description: "Records new query text; a lookup starts after the debounce interval. Blank text returns the session to idle.",
		Tags:        []string{"Sessions"},
		Middlewares: limited,
	}, s.handleSetQuery)

	huma.Register(s.api, huma.Operation{
		OperationID: "setSessionScope",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/scope",
		Summary:     "Set search scope",
		Description: "Changes the scope; with non-blank text a lookup starts immediately",
		Tags:        []string{"Sessions"},
		Middlewares: limited,
	}, s.handleSetScope)

	huma.Register(s.api, huma.Operation{
		OperationID: "retrySession",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/retry",
		Summary:     "Retry search",
		Description: "Re-issues the lookup for the stored text and scope without debounce",
		Tags:        []string{"Sessions"},
		Middlewares: limited,
	}, s.handleRetry)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearSession",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/clear",
		Summary:     "Clear search",
		Description: "Cancels pending work, clears the text and returns to idle",
		Tags:        []string{"Sessions"},
		Middlewares: limited,
	}, s.handleClear)

	huma.Register(s.api, huma.Operation{
		OperationID:   "closeSession",
		Method:        http.MethodDelete,
		Path:          "/api/v1/sessions/{id}",
		Summary:       "Close session",
		Description:   "Ends the session and every state stream attached to it",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleCloseSession)
}

// === DTOs ===

// SessionPathInput identifies a session.
type SessionPathInput struct {
	ID string `path:"id" doc:"Search session ID"`
}

// QueryRequest is the body for setting query text.
type QueryRequest struct {
	Text string `json:"text" validate:"max=200,printable" doc:"Raw query text; blank returns to idle"`
}

// SetQueryInput wraps the query request for Huma.
type SetQueryInput struct {
	ID   string `path:"id" doc:"Search session ID"`
	Body QueryRequest
}

// ScopeRequest is the body for changing the scope.
type ScopeRequest struct {
	Scope string `json:"scope" validate:"required,oneof=all title author" doc:"Search scope: all, title or author"`
}

// SetScopeInput wraps the scope request for Huma.
type SetScopeInput struct {
	ID   string `path:"id" doc:"Search session ID"`
	Body ScopeRequest
}

// SessionResponse is a point-in-time view of a session.
type SessionResponse struct {
	ID        string          `json:"id" doc:"Search session ID"`
	Query     string          `json:"query" doc:"Query text as last set"`
	Scope     string          `json:"scope" doc:"Current scope"`
	State     dto.SearchState `json:"state" doc:"Latest published state"`
	CreatedAt time.Time       `json:"created_at" doc:"When the session was created"`
	ExpiresAt time.Time       `json:"expires_at" doc:"When the session expires if left untouched"`
	StreamURL string          `json:"stream_url" doc:"Server-Sent Events endpoint for state changes"`
}

// SessionOutput wraps the session response for Huma.
type SessionOutput struct {
	Body SessionResponse
}

// === Handlers ===

func (s *Server) handleCreateSession(_ context.Context, _ *struct{}) (*SessionOutput, error) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.logger.Warn("Failed to create search session", "error", err)
		return nil, err
	}
	return s.sessionOutput(sess), nil
}

func (s *Server) handleGetSession(_ context.Context, input *SessionPathInput) (*SessionOutput, error) {
	sess, err := s.sessions.Get(input.ID)
	if err != nil {
		return nil, err
	}
	return s.sessionOutput(sess), nil
}

func (s *Server) handleSetQuery(_ context.Context, input *SetQueryInput) (*SessionOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	sess, err := s.sessions.Get(input.ID)
	if err != nil {
		return nil, err
	}

	sess.Search.SetQueryText(input.Body.Text)
	return s.sessionOutput(sess), nil
}

func (s *Server) handleSetScope(_ context.Context, input *SetScopeInput) (*SessionOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	scope, err := domain.ParseScope(input.Body.Scope)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	sess, err := s.sessions.Get(input.ID)
	if err != nil {
		return nil, err
	}

	sess.Search.SetScope(scope)
	return s.sessionOutput(sess), nil
}

func (s *Server) handleRetry(_ context.Context, input *SessionPathInput) (*SessionOutput, error) {
	sess, err := s.sessions.Get(input.ID)
	if err != nil {
		return nil, err
	}

	sess.Search.Retry()
	return s.sessionOutput(sess), nil
}

func (s *Server) handleClear(_ context.Context, input *SessionPathInput) (*SessionOutput, error) {
	sess, err := s.sessions.Get(input.ID)
	if err != nil {
		return nil, err
	}

	sess.Search.Clear()
	return s.sessionOutput(sess), nil
}

func (s *Server) handleCloseSession(_ context.Context, input *SessionPathInput) (*struct{}, error) {
	if err := s.sessions.Close(input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) sessionOutput(sess *session.Session) *SessionOutput {
	return &SessionOutput{
		Body: SessionResponse{
			ID:        sess.ID,
			Query:     sess.Search.Query(),
			Scope:     sess.Search.Scope().String(),
			State:     dto.NewSearchState(sess.Search.State()),
			CreatedAt: sess.CreatedAt,
			ExpiresAt: sess.LastSeen().Add(s.sessions.TTL()),
			StreamURL: "/api/v1/sessions/" + sess.ID + "/stream",
		},
	}
}
