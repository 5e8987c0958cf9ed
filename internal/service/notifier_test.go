package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus/internal/logger"
	"campus/internal/model"
)

func TestLogResetNotifier_NeverLogsTheToken(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	for _, format := range []string{"json", "pretty"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			slog.SetDefault(logger.New(&buf, "debug", format))

			user := model.User{ID: "u-1", Email: "s@x.io"}
			err := LogResetNotifier{}.NotifyPasswordReset(context.Background(), user, "RAWSECRET123", time.Now().Add(time.Hour))
			require.NoError(t, err)

			out := buf.String()
			assert.Contains(t, out, "password reset issued")
			assert.Contains(t, out, "u-1")
			assert.NotContains(t, out, "RAWSECRET123")
			assert.NotContains(t, out, "s@x.io")
		})
	}
}

func TestConsoleResetNotifier_WritesToken(t *testing.T) {
	var buf bytes.Buffer
	expires := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	err := ConsoleResetNotifier{Out: &buf}.NotifyPasswordReset(context.Background(), model.User{ID: "u-1", Email: "s@x.io"}, "RAWSECRET123", expires)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "token=RAWSECRET123")
	assert.Contains(t, buf.String(), "2024-03-01T10:00:00Z")
}
