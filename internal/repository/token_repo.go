package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campus/internal/model"
)

// TokenRepository stores single-use tokens (password reset, authorization codes)
// by the hash of their raw value.
type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Store(ctx context.Context, t model.OneTimeToken) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO one_time_tokens (token_hash, user_id, purpose, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		t.TokenHash, t.UserID, t.Purpose, t.ExpiresAt, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("store %s token: %w", t.Purpose, err)
	}
	return nil
}

// Consume deletes the token and returns it. Exactly one concurrent caller can
// observe a given row; the rest get ErrTokenNotFound. An expired row is still
// deleted and reported as ErrTokenExpired.
func (r *TokenRepository) Consume(ctx context.Context, purpose string, tokenHash string, now time.Time) (model.OneTimeToken, error) {
	return consumeToken(ctx, r.pool, purpose, tokenHash, "", now)
}

// ResetPassword redeems a password-reset token for userID and replaces the
// password hash in the same transaction.
func (r *TokenRepository) ResetPassword(ctx context.Context, userID string, tokenHash string, passwordHash string, now time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reset tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, consumeErr := consumeToken(ctx, tx, model.PurposePasswordReset, tokenHash, userID, now)
	switch {
	case errors.Is(consumeErr, model.ErrTokenExpired):
		// the expired row is removed regardless of the outcome
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit reset tx: %w", err)
		}
		return consumeErr
	case consumeErr != nil:
		return consumeErr
	}

	if err := updatePassword(ctx, tx, userID, passwordHash); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reset tx: %w", err)
	}
	return nil
}

func consumeToken(ctx context.Context, db dbtx, purpose string, tokenHash string, userID string, now time.Time) (model.OneTimeToken, error) {
	c := newConditions()
	c.add("token_hash = $%d", tokenHash)
	c.add("purpose = $%d", purpose)
	c.addIf(userID != "", "user_id = $%d", userID)

	t := model.OneTimeToken{TokenHash: tokenHash}
	err := db.QueryRow(ctx,
		`DELETE FROM one_time_tokens`+c.where()+` RETURNING user_id, purpose, expires_at, created_at`,
		c.args...).Scan(&t.UserID, &t.Purpose, &t.ExpiresAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.OneTimeToken{}, model.ErrTokenNotFound
	}
	if err != nil {
		return model.OneTimeToken{}, fmt.Errorf("consume %s token: %w", purpose, err)
	}

	if !now.Before(t.ExpiresAt) {
		return model.OneTimeToken{}, model.ErrTokenExpired
	}
	return t, nil
}

func (r *TokenRepository) CleanExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM one_time_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("clean expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
