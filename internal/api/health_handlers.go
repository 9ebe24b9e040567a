package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Sessions   int                        `json:"sessions" doc:"Open search sessions"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	sessions := s.sessions.Count()
	components := map[string]ComponentHealth{
		"sessions": s.checkSessions(sessions),
		"sse": {
			Status:  "healthy",
			Message: fmt.Sprintf("%d connected clients", s.sseManager.ClientCount()),
		},
	}

	overall := "healthy"
	for _, c := range components {
		if c.Status != "healthy" {
			overall = "degraded"
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Sessions:   sessions,
			Components: components,
		},
	}, nil
}

// checkSessions reports degraded once the session table is nearly full.
func (s *Server) checkSessions(count int) ComponentHealth {
	limit := s.sessions.MaxSessions()
	if count*10 >= limit*9 {
		return ComponentHealth{
			Status:  "degraded",
			Message: fmt.Sprintf("%d of %d sessions in use", count, limit),
		}
	}
	return ComponentHealth{
		Status:  "healthy",
		Message: fmt.Sprintf("%d open sessions", count),
	}
}
