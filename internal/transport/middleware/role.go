package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mfirmanda/helpdesk-management/internal/auth"
	userDatamodel "github.com/mfirmanda/helpdesk-management/internal/core/datamodel/user"
)

// RequireRoles gates a route group to the listed roles. It expects the auth
// middleware to have attached the principal already.
func RequireRoles(roles ...userDatamodel.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.UserFromContext(r.Context())
			if !ok || u == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			allowed := false
			for _, role := range roles {
				if u.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				slog.Warn("access denied: insufficient role",
					"user_id", u.ID,
					"role", u.Role,
					"required_roles", roles,
					"path", r.URL.Path)
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is shorthand for the admin-only route groups.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRoles(userDatamodel.RoleAdmin)
}
