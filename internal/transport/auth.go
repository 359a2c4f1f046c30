package transport

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/rpggio/pmdash/internal/domain/session"
	"github.com/rpggio/pmdash/internal/metrics"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type actorKey struct{}
type tokenKey struct{}

// ActorResolver resolves the actor behind a bearer token.
type ActorResolver interface {
	ResolveActor(ctx context.Context, token string) (*session.Actor, error)
}

// ActorFromContext returns the authenticated actor, if present.
func ActorFromContext(ctx context.Context) (*session.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(*session.Actor)
	return actor, ok && actor != nil
}

// WithActor returns a context carrying actor.
func WithActor(ctx context.Context, actor *session.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware enforces bearer token authentication. Failures are always
// 401 with a JSON error body.
func AuthMiddleware(resolver ActorResolver, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				m.AuthFailure()
				writeError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			actor, err := resolver.ResolveActor(r.Context(), token)
			if err != nil || actor == nil {
				m.AuthFailure()
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := WithActor(r.Context(), actor)
			ctx = context.WithValue(ctx, tokenKey{}, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AnonKeyMiddleware requires the public anonymous key as bearer token.
// An empty key disables the check.
func AnonKeyMiddleware(anonKey string, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if anonKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))
			if subtle.ConstantTimeCompare([]byte(token), []byte(anonKey)) != 1 {
				m.AuthFailure()
				writeError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
