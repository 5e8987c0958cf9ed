//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"campus/internal/app"
	"campus/internal/config"
	"campus/internal/database"
	"campus/internal/metrics"
	"campus/internal/middleware"
	"campus/internal/model"
	"campus/internal/repository"
	"campus/internal/router"
	"campus/internal/security"
)

const defaultPassword = "Password123!"

type testServer struct {
	*httptest.Server
	db    *database.DB
	users *repository.UserRepository
}

func newServer(t *testing.T) *testServer {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, url, 8, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(ctx))

	cfg := &config.Config{
		JWTSecret:        "integration-secret",
		JWTAlgorithm:     "HS256",
		JWTAccessTTL:     15 * time.Minute,
		JWTRefreshTTL:    7 * 24 * time.Hour,
		BcryptCost:       4,
		ResetTokenTTL:    time.Hour,
		AuthCodeTTL:      time.Minute,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
		RequestTimeout:   10 * time.Second,
	}

	codec, err := security.NewTokenCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
	require.NoError(t, err)

	m := metrics.New()
	handlers, authService := app.Wire(db, cfg, codec, m)
	server := httptest.NewServer(router.New(cfg, m, middleware.NewAuthMiddleware(authService), handlers, db.Health))
	t.Cleanup(server.Close)

	return &testServer{Server: server, db: db, users: repository.NewUserRepository(db.Pool)}
}

// seedAdmin inserts a super admin directly; the HTTP surface never grants privileges to itself.
func (s *testServer) seedAdmin(t *testing.T) (model.User, string) {
	t.Helper()

	hash, err := security.NewBcryptHasher(4).Hash(defaultPassword)
	require.NoError(t, err)

	now := time.Now().UTC()
	admin := model.User{
		ID:           uuid.NewString(),
		Email:        "admin-" + uuid.NewString()[:8] + "@campus.test",
		PasswordHash: hash,
		FirstName:    "Root",
		IsSuperAdmin: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.users.Create(context.Background(), admin))
	return admin, s.login(t, admin.Email, defaultPassword).AccessToken
}

// register signs up a fresh user and returns it with an access token.
func (s *testServer) register(t *testing.T, prefix string) (model.User, string) {
	t.Helper()

	email := prefix + "-" + uuid.NewString()[:8] + "@campus.test"
	var u model.User
	resp := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{"email": email, "password": defaultPassword})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeData(t, resp, &u)
	return u, s.login(t, email, defaultPassword).AccessToken
}

func (s *testServer) login(t *testing.T, email string, password string) model.Session {
	t.Helper()

	resp := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return decodeSession(t, resp)
}

// decodeSession reads a token response, which is not wrapped in the envelope.
func decodeSession(t *testing.T, resp *http.Response) model.Session {
	t.Helper()

	var session model.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	require.NotEmpty(t, session.AccessToken)
	return session
}

func (s *testServer) do(t *testing.T, method string, path string, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, s.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// create POSTs a record and returns its id.
func (s *testServer) create(t *testing.T, path string, token string, body any) string {
	t.Helper()

	resp := s.do(t, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, path)

	var created struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &created)
	require.NotEmpty(t, created.ID)
	return created.ID
}

func decodeData(t *testing.T, resp *http.Response, dst any) {
	t.Helper()

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NoError(t, json.Unmarshal(env.Data, dst))
}
