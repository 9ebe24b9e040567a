package response

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscout/shelfscout/internal/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	Success(w, map[string]string{"message": "test"}, logger)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	result := decode(t, w)
	assert.Equal(t, Version, result.Version)
	assert.True(t, result.Success)
	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Error)
}

func TestError_StatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(http.ResponseWriter, string, *slog.Logger)
		wantCode int
		wantErr  errors.Code
	}{
		{"not found", NotFound, http.StatusNotFound, errors.CodeNotFound},
		{"method not allowed", MethodNotAllowed, http.StatusMethodNotAllowed, errors.CodeNotFound},
		{"too many requests", TooManyRequests, http.StatusTooManyRequests, errors.CodeRateLimited},
		{"internal error", InternalError, http.StatusInternalServerError, errors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.fn(w, "boom", nil)

			assert.Equal(t, tt.wantCode, w.Code)
			result := decode(t, w)
			assert.False(t, result.Success)
			assert.Equal(t, "boom", result.Error)
			assert.Equal(t, string(tt.wantErr), result.Code)
		})
	}
}

func TestHandleError_DomainError(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, fmt.Errorf("lookup: %w", errors.NotFound("search session srch-1 not found")), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	result := decode(t, w)
	assert.Equal(t, "NOT_FOUND", result.Code)
	assert.Equal(t, "search session srch-1 not found", result.Message)
}

func TestHandleError_Unknown(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, errors.New("disk on fire"), slog.New(slog.DiscardHandler))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	result := decode(t, w)
	assert.Equal(t, "internal server error", result.Error)
	assert.NotContains(t, w.Body.String(), "disk on fire")
}
