//go:build integration

package integration

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus/internal/model"
)

func TestAuthFlowAndProtectedEndpoints(t *testing.T) {
	s := newServer(t)
	user, _ := s.register(t, "flow")

	session := s.login(t, user.Email, defaultPassword)
	assert.Equal(t, "bearer", session.TokenType)
	assert.Equal(t, int64(900), session.ExpiresIn)
	assert.Equal(t, user.ID, session.User.ID)

	me := s.do(t, http.MethodGet, "/auth/me", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, me.StatusCode)
	var p model.Principal
	decodeData(t, me, &p)
	assert.Equal(t, user.ID, p.ID)

	refreshed := s.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": session.RefreshToken})
	require.Equal(t, http.StatusOK, refreshed.StatusCode)
	next := decodeSession(t, refreshed)
	assert.Equal(t, user.ID, next.User.ID)

	anonymous := s.do(t, http.MethodGet, "/points", "", nil)
	assert.Equal(t, http.StatusUnauthorized, anonymous.StatusCode)
	assert.Equal(t, "Bearer", anonymous.Header.Get("WWW-Authenticate"))

	wrong := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": user.Email, "password": "not it"})
	assert.Equal(t, http.StatusUnauthorized, wrong.StatusCode)
}

func TestTokenEndpoint_AuthorizationCode(t *testing.T) {
	s := newServer(t)
	_, token := s.register(t, "code")

	resp := s.do(t, http.MethodPost, "/auth/authorize", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var code model.AuthorizationCode
	decodeData(t, resp, &code)

	exchange := func() *http.Response {
		form := url.Values{"grant_type": {"authorization_code"}, "code": {code.Code}}
		r, err := http.Post(s.URL+"/token", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
		require.NoError(t, err)
		t.Cleanup(func() { _ = r.Body.Close() })
		return r
	}

	first := exchange()
	require.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "bearer", decodeSession(t, first).TokenType)
	assert.Equal(t, http.StatusUnauthorized, exchange().StatusCode)
}

func TestDisabledUserIsLockedOut(t *testing.T) {
	s := newServer(t)
	_, adminToken := s.seedAdmin(t)
	user, userToken := s.register(t, "frozen")

	resp := s.do(t, http.MethodPatch, "/users/"+user.ID, adminToken, map[string]any{"is_disabled": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	me := s.do(t, http.MethodGet, "/auth/me", userToken, nil)
	assert.Equal(t, http.StatusForbidden, me.StatusCode)

	login := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": user.Email, "password": defaultPassword})
	assert.Equal(t, http.StatusForbidden, login.StatusCode)
}

func TestUserCannotPromoteThemselves(t *testing.T) {
	s := newServer(t)
	user, token := s.register(t, "climber")

	resp := s.do(t, http.MethodPatch, "/users/"+user.ID, token, map[string]any{"is_super_admin": true})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPatch, "/users/"+user.ID, token, map[string]any{"first_name": "Ada"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/users", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
