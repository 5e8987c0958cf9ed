package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"campus/internal/model"
	"campus/internal/security"
	"campus/pkg/apierror"
)

const tokenTypeBearer = "bearer"

type AuthConfig struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ResetTokenTTL time.Duration
	AuthCodeTTL   time.Duration
}

type AuthService struct {
	users    UserStore
	tokens   TokenStore
	hasher   security.PasswordHasher
	codec    *security.TokenCodec
	cfg      AuthConfig
	notifier ResetNotifier
	observer AuthObserver
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

type AuthOption func(*AuthService)

func WithResetNotifier(n ResetNotifier) AuthOption {
	return func(s *AuthService) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithAuthObserver(o AuthObserver) AuthOption {
	return func(s *AuthService) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithAuthClock must agree with the clock given to the TokenCodec.
func WithAuthClock(now func() time.Time) AuthOption {
	return func(s *AuthService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewAuthService(users UserStore, tokens TokenStore, hasher security.PasswordHasher, codec *security.TokenCodec, cfg AuthConfig, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		codec:    codec,
		cfg:      cfg,
		notifier: LogResetNotifier{},
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func invalidCredentials() error {
	return apierror.Wrap(model.ErrInvalidCredentials, "INVALID_CREDENTIALS", "incorrect email or password", http.StatusUnauthorized)
}

// Authenticate checks an email/password pair. It reports ErrUserNotFound and
// ErrInvalidCredentials separately; callers facing the network must collapse them.
func (s *AuthService) Authenticate(ctx context.Context, email string, password string) (model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		s.burnHash(password)
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("verify password for user %s: %w", user.ID, err)
	}
	if !ok {
		return model.User{}, model.ErrInvalidCredentials
	}
	return user, nil
}

// burnHash spends one comparison on unknown emails so response time does not
// reveal whether the account exists.
func (s *AuthService) burnHash(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("campus-timing-equalizer")
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.Session, error) {
	user, err := s.Authenticate(ctx, email, password)
	switch {
	case errors.Is(err, model.ErrUserNotFound), errors.Is(err, model.ErrInvalidCredentials):
		s.observer.AuthOutcome("login", "failure")
		return model.Session{}, invalidCredentials()
	case err != nil:
		return model.Session{}, err
	}

	if user.IsDisabled {
		s.observer.AuthOutcome("login", "denied")
		return model.Session{}, accountDisabled()
	}

	session, err := s.Issue(user)
	if err != nil {
		return model.Session{}, err
	}
	s.observer.AuthOutcome("login", "success")
	return session, nil
}

// Issue mints an access/refresh pair for the principal.
func (s *AuthService) Issue(user model.User) (model.Session, error) {
	access, err := s.codec.Encode(security.NewClaims(user.ID, user.Email, model.TokenTypeAccess), s.cfg.AccessTTL)
	if err != nil {
		return model.Session{}, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := s.codec.Encode(security.NewClaims(user.ID, user.Email, model.TokenTypeRefresh), s.cfg.RefreshTTL)
	if err != nil {
		return model.Session{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return model.Session{
		AccessToken:  access,
		TokenType:    tokenTypeBearer,
		User:         user,
		ExpiresIn:    int64(s.cfg.AccessTTL / time.Second),
		RefreshToken: refresh,
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	claims, err := s.codec.Decode(refreshToken, model.TokenTypeRefresh)
	if err != nil {
		slog.Debug("refresh token rejected", "error", err)
		s.observer.AuthOutcome("refresh", "failure")
		return model.Session{}, unauthorized()
	}

	user, err := s.activeUser(ctx, claims.Subject)
	if err != nil {
		s.observer.AuthOutcome("refresh", "failure")
		return model.Session{}, err
	}

	session, err := s.Issue(user)
	if err != nil {
		return model.Session{}, err
	}
	s.observer.AuthOutcome("refresh", "success")
	return session, nil
}

// Resolve maps a bearer access token to its principal.
func (s *AuthService) Resolve(ctx context.Context, accessToken string) (model.User, error) {
	claims, err := s.codec.Decode(accessToken, model.TokenTypeAccess)
	if err != nil {
		slog.Debug("access token rejected", "error", err)
		s.observer.AuthOutcome("resolve", "failure")
		return model.User{}, unauthorized()
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if errors.Is(err, model.ErrUserNotFound) {
		s.observer.AuthOutcome("resolve", "failure")
		return model.User{}, unauthorized()
	}
	if err != nil {
		return model.User{}, err
	}

	if user.IsDisabled {
		s.observer.AuthOutcome("resolve", "denied")
		return model.User{}, accountDisabled()
	}
	return user, nil
}

// activeUser loads a token subject; gone or disabled principals read as unauthenticated.
func (s *AuthService) activeUser(ctx context.Context, userID string) (model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, unauthorized()
	}
	if err != nil {
		return model.User{}, err
	}
	if user.IsDisabled {
		return model.User{}, unauthorized()
	}
	return user, nil
}

// Register creates an ordinary account. Privilege flags are never taken from self-registration.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	user, err := newUser(s.hasher, req, s.now())
	if err != nil {
		return model.User{}, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			return model.User{}, emailTaken()
		}
		return model.User{}, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, current string, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return unauthorized()
	}
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(current, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password for user %s: %w", user.ID, err)
	}
	if !ok {
		return apierror.Wrap(model.ErrInvalidCredentials, "INVALID_CREDENTIALS", "current password is incorrect", http.StatusUnauthorized)
	}

	hash, err := hashPassword(s.hasher, next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

// RequestPasswordReset never reveals whether the email is registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		slog.Debug("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	if user.IsDisabled {
		slog.Debug("password reset requested for disabled account", "user_id", user.ID)
		return nil
	}

	raw, expiresAt, err := s.storeOneTimeToken(ctx, user.ID, model.PurposePasswordReset, s.cfg.ResetTokenTTL)
	if err != nil {
		return err
	}

	if err := s.notifier.NotifyPasswordReset(ctx, user, raw, expiresAt); err != nil {
		return fmt.Errorf("deliver password reset: %w", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, userID string, token string, newPassword string) error {
	hash, err := hashPassword(s.hasher, newPassword)
	if err != nil {
		return err
	}

	err = s.tokens.ResetPassword(ctx, userID, security.HashOpaqueToken(token), hash, s.now().UTC())
	switch {
	case errors.Is(err, model.ErrTokenNotFound), errors.Is(err, model.ErrTokenExpired):
		s.observer.AuthOutcome("password_reset", "failure")
		return apierror.Wrap(err, "INVALID_TOKEN", "reset token is invalid or expired", http.StatusUnauthorized)
	case errors.Is(err, model.ErrUserNotFound):
		return apierror.Wrap(model.ErrTokenNotFound, "INVALID_TOKEN", "reset token is invalid or expired", http.StatusUnauthorized)
	case err != nil:
		return err
	}

	s.observer.AuthOutcome("password_reset", "success")
	slog.Info("password reset completed", "user_id", userID)
	return nil
}

// IssueAuthorizationCode hands the caller a short-lived single-use code that
// can be exchanged at the token endpoint for a fresh session.
func (s *AuthService) IssueAuthorizationCode(ctx context.Context, p model.Principal) (model.AuthorizationCode, error) {
	if err := RequireAuthenticated(p); err != nil {
		return model.AuthorizationCode{}, err
	}

	raw, _, err := s.storeOneTimeToken(ctx, p.ID, model.PurposeAuthorizationCode, s.cfg.AuthCodeTTL)
	if err != nil {
		return model.AuthorizationCode{}, err
	}
	return model.AuthorizationCode{Code: raw, ExpiresIn: int64(s.cfg.AuthCodeTTL / time.Second)}, nil
}

func (s *AuthService) ExchangeCode(ctx context.Context, code string) (model.Session, error) {
	t, err := s.tokens.Consume(ctx, model.PurposeAuthorizationCode, security.HashOpaqueToken(code), s.now().UTC())
	if errors.Is(err, model.ErrTokenNotFound) || errors.Is(err, model.ErrTokenExpired) {
		s.observer.AuthOutcome("code_exchange", "failure")
		return model.Session{}, unauthorized()
	}
	if err != nil {
		return model.Session{}, err
	}

	user, err := s.activeUser(ctx, t.UserID)
	if err != nil {
		s.observer.AuthOutcome("code_exchange", "failure")
		return model.Session{}, err
	}

	session, err := s.Issue(user)
	if err != nil {
		return model.Session{}, err
	}
	s.observer.AuthOutcome("code_exchange", "success")
	return session, nil
}

func (s *AuthService) storeOneTimeToken(ctx context.Context, userID string, purpose string, ttl time.Duration) (string, time.Time, error) {
	raw, err := security.NewOpaqueToken()
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.now().UTC()
	t := model.OneTimeToken{
		TokenHash: security.HashOpaqueToken(raw),
		UserID:    userID,
		Purpose:   purpose,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.tokens.Store(ctx, t); err != nil {
		return "", time.Time{}, err
	}
	return raw, t.ExpiresAt, nil
}

// RunCleanup deletes expired one-time tokens every interval until ctx is done.
func (s *AuthService) RunCleanup(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed, err := s.tokens.CleanExpired(ctx, s.now().UTC())
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Warn("one-time token cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("expired one-time tokens removed", "count", removed)
			}
		}
	}
}

func hashPassword(hasher security.PasswordHasher, plaintext string) (string, error) {
	hash, err := hasher.Hash(plaintext)
	switch {
	case errors.Is(err, security.ErrPasswordEmpty), errors.Is(err, security.ErrPasswordTooLong):
		return "", model.InvalidInputError(err.Error())
	case err != nil:
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func newUser(hasher security.PasswordHasher, req model.RegisterRequest, now time.Time) (model.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return model.User{}, model.InvalidInputError("email is required")
	}

	hash, err := hashPassword(hasher, req.Password)
	if err != nil {
		return model.User{}, err
	}

	now = now.UTC()
	return model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		Phone:        req.Phone,
		DOB:          req.DOB,
		Address:      req.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func emailTaken() error {
	return apierror.Wrap(model.ErrUserAlreadyExists, "ALREADY_EXISTS", "email already registered", http.StatusConflict)
}
