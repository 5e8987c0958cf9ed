package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"campus/internal/model"
)

// ResetNotifier delivers a raw password-reset token to its owner out of band.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, user model.User, token string, expiresAt time.Time) error
}

// LogResetNotifier records that a reset was issued. The raw token never
// reaches the log; only its owner and expiry do.
type LogResetNotifier struct{}

func (LogResetNotifier) NotifyPasswordReset(ctx context.Context, user model.User, _ string, expiresAt time.Time) error {
	slog.InfoContext(ctx, "password reset issued",
		"user_id", user.ID,
		"expires_at", expiresAt,
	)
	return nil
}

// ConsoleResetNotifier prints the raw token to Out, outside the log
// pipeline. Local development only.
type ConsoleResetNotifier struct {
	Out io.Writer
}

func (n ConsoleResetNotifier) NotifyPasswordReset(ctx context.Context, user model.User, token string, expiresAt time.Time) error {
	if _, err := fmt.Fprintf(n.Out, "password reset for %s (user %s): token=%s expires=%s\n",
		user.Email, user.ID, token, expiresAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("write reset token: %w", err)
	}
	return nil
}
