package middleware

import (
	"context"
	"net/http"
	"strings"

	"campus/internal/model"
	"campus/internal/service"
)

type principalResolver interface {
	Resolve(ctx context.Context, accessToken string) (model.User, error)
}

type contextKey string

const principalContextKey contextKey = "principal"

type AuthMiddleware struct {
	resolver principalResolver
}

func NewAuthMiddleware(resolver principalResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth resolves the bearer token into a principal and stores it on the
// request context. Missing or bad tokens get 401, disabled accounts 403.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeAPIError(w, service.RequireAuthenticated(model.Principal{}))
			return
		}

		user, err := m.resolver.Resolve(r.Context(), token)
		if err != nil {
			writeAPIError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), user.Principal())))
	})
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			writeAPIError(w, service.RequireAuthenticated(model.Principal{}))
			return
		}
		if err := service.RequireAdmin(p); err != nil {
			writeAPIError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(model.Principal)
	return p, ok && p.ID != ""
}
