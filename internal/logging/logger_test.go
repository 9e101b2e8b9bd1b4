package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", FormatJSON, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("kind", "multi").Msg("shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "multi", entry["kind"])
	assert.Contains(t, entry, "time")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", "console", &buf)
	logger.Info().Str("sheet", "Data").Msg("table loaded")

	out := buf.String()
	assert.Contains(t, out, "table loaded")
	assert.Contains(t, out, "sheet=")
	assert.NotContains(t, out, `"message"`)
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat("console"))
	assert.True(t, ValidFormat("JSON"))
	assert.False(t, ValidFormat("text"))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := New("info", FormatJSON, &buf)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	logger := FromContext(ctx, base)
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)

	buf.Reset()
	logger = FromContext(context.Background(), base)
	logger.Info().Msg("plain")
	assert.NotContains(t, buf.String(), "request_id")
}

func TestFromContextStoredLogger(t *testing.T) {
	var buf bytes.Buffer
	base := New("info", FormatJSON, &buf)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-2")
	stored := FromContext(ctx, base)
	ctx = stored.WithContext(ctx)

	logger := FromContext(ctx, zerolog.Nop())
	logger.Info().Msg("handled")

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, `"request_id"`), out)
	assert.Contains(t, out, `"request_id":"req-2"`)
}
