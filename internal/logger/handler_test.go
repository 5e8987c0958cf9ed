package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONRedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "json")

	log.Info("login", "email", "a@x.io", "password", "hunter22", "refresh_token", "eyJ...", "reset_token", "RAWSECRET123")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "a@x.io", entry["email"])
	assert.Equal(t, redacted, entry["password"])
	assert.Equal(t, redacted, entry["refresh_token"])
	assert.Equal(t, redacted, entry["reset_token"])
	assert.NotContains(t, buf.String(), "RAWSECRET123")
}

func TestPrettyHandler_RedactsAndFormats(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "pretty")

	log.With("request_id", "r-1").Info("reset requested", "token", "abc123")

	out := buf.String()
	assert.Contains(t, out, "reset requested")
	assert.Contains(t, out, "r-1")
	assert.Contains(t, out, redacted)
	assert.NotContains(t, out, "abc123")
}

func TestPrettyHandler_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "pretty")

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
