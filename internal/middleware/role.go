package middleware

import (
	"net/http"
	"slices"

	"go.uber.org/zap"

	"banktech/internal/logging"
	"banktech/internal/models"
)

// RequireRole lets the request through only for operators holding one of roles.
// It must run after Auth.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !slices.Contains(roles, claims.Role) {
				logging.FromContext(r.Context()).Warn("role check failed",
					zap.String("username", claims.Username),
					zap.String("role", string(claims.Role)),
				)
				http.Error(w, "insufficient role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
