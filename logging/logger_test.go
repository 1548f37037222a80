// ABOUTME: Tests for logger construction
// ABOUTME: Covers levels, formats and context-scoped loggers
package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected charmlog.Level
	}{
		{"debug", charmlog.DebugLevel},
		{"INFO", charmlog.InfoLevel},
		{"Warn", charmlog.WarnLevel},
		{"error", charmlog.ErrorLevel},
		{"unknown", charmlog.InfoLevel},
		{"", charmlog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseLevel(tt.input), "parseLevel(%q)", tt.input)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", "json", &buf)
	logger.Info("fetched records", "resource", "properties", "count", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "fetched records", line["msg"])
	assert.Equal(t, "properties", line["resource"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", "text", &buf)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, "shown"))
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	scoped := New("info", "logfmt", &buf).With("request_id", "abc123")

	ctx := WithContext(context.Background(), scoped)
	FromContext(ctx).Info("handled")

	assert.Contains(t, buf.String(), "request_id=abc123")
	assert.Same(t, L, FromContext(context.Background()))
}
