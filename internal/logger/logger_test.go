package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantJSON    bool
	}{
		{"production uses json", "production", true},
		{"development uses pretty", "development", false},
		{"empty uses pretty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Config{Writer: &buf, Environment: tt.environment})
			l.Info("search published", "query", "dune")

			out := buf.String()
			if tt.wantJSON {
				var rec map[string]any
				require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
				assert.Equal(t, "search published", rec["msg"])
				assert.Equal(t, "dune", rec["query"])
			} else {
				assert.Contains(t, out, "INF")
				assert.Contains(t, out, "search published")
				assert.Contains(t, out, "query=dune")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))

	nilOpts := NewPrettyHandler(&bytes.Buffer{}, nil)
	assert.False(t, nilOpts.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, nilOpts.Enabled(context.Background(), slog.LevelInfo))
}

func TestPrettyHandler_NoColor(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: "pretty", NoColor: true})
	l.Warn("catalog slow", "provider", "googlebooks")

	out := buf.String()
	assert.NotContains(t, out, "\033[")
	assert.Contains(t, out, "WRN catalog slow provider=googlebooks")
}

func TestPrettyHandler_QuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: "pretty", NoColor: true})
	l.Info("query changed", "text", "the left hand")

	assert.Contains(t, buf.String(), `text="the left hand"`)
}

func TestPrettyHandler_GroupsQualifyKeys(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: "pretty", NoColor: true})

	l.WithGroup("search").With("session", "srch-1").Info("published", "kind", "success")

	out := buf.String()
	assert.Contains(t, out, "search.session=srch-1")
	assert.Contains(t, out, "search.kind=success")
}

func TestPrettyHandler_FormatsDurations(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: "pretty", NoColor: true})
	l.Info("lookup finished", "took", 1500*time.Millisecond)

	assert.Contains(t, buf.String(), "took=1.5s")
}

func TestFormatLevel(t *testing.T) {
	s, _ := formatLevel(slog.LevelDebug)
	assert.Equal(t, "DBG", s)
	s, _ = formatLevel(slog.LevelError)
	assert.Equal(t, "ERR", s)
	s, c := formatLevel(slog.Level(2))
	assert.Equal(t, slog.Level(2).String(), s)
	assert.Equal(t, colorGray, c)
}

func TestLogger_WithHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: "json"})

	l.WithComponent("orchestrator").WithError(assert.AnError).Error("lookup failed")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "orchestrator", rec["component"])
	assert.Equal(t, assert.AnError.Error(), rec["error"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: "json", Level: slog.LevelWarn})

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
	assert.Contains(t, lines[0], "shown")
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "shelfscout.log")

	l, err := NewFile(path, Config{Format: "pretty"})
	require.NoError(t, err)
	l.Info("terminal client started")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "terminal client started")
	assert.NotContains(t, string(data), "\033[")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("goes nowhere")
	assert.NoError(t, l.Close())
}
