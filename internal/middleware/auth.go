package middleware

import (
	"context"
	"net/http"
	"strings"

	"powermed-api/internal/domain"

	"go.uber.org/zap"
)

type contextKey string

const principalKey contextKey = "principal"

// PrincipalResolver resolves a bearer token to an authenticated principal.
// Implemented by the auth service: verify token, load account, reject
// missing or inactive accounts.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*domain.Principal, error)
}

// RequireAuth gates a route on a valid bearer token. On success the
// resolved principal (password already projected out) is attached to the
// request context; on any failure the pipeline halts with a 401 and no
// downstream handler runs. Auth failures are terminal per request — there
// are no retries.
func RequireAuth(resolver PrincipalResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				RespondWithError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			principal, err := resolver.ResolvePrincipal(r.Context(), parts[1])
			if err != nil {
				// Structural, signature, expiry, unknown-account and
				// inactive-account failures all look the same to the client.
				logger.Debug("Token resolution failed", zap.Error(err))
				RespondWithError(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			logger.Debug("Principal authenticated",
				zap.String("id", principal.ID.String()),
				zap.String("kind", string(principal.Kind)),
			)

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route on the resolved principal satisfying the
// admin role. Both identity sources are honored: dedicated admin accounts
// and legacy role-flagged users.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok {
				logger.Warn("Principal not found in context")
				RespondWithError(w, http.StatusForbidden, "Access denied. Admin only.")
				return
			}

			if !principal.IsAdmin() {
				logger.Warn("Non-admin principal attempted to access admin endpoint",
					zap.String("kind", string(principal.Kind)),
					zap.String("role", principal.Role),
				)
				RespondWithError(w, http.StatusForbidden, "Access denied. Admin only.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetPrincipal extracts the authenticated principal from request context.
func GetPrincipal(ctx context.Context) (*domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(*domain.Principal)
	return principal, ok
}
