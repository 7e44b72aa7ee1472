package middleware

import (
	"context"
	"net/http"

	"github.com/tekashi/storefront/internal/api/response"
)

// IsAdmin reports whether the caller holds the admin role.
func IsAdmin(ctx context.Context) bool {
	return GetClaims(ctx).IsAdmin()
}

// IsOwnerOrAdmin reports whether the caller is userID or an admin.
func IsOwnerOrAdmin(ctx context.Context, userID string) bool {
	claims := GetClaims(ctx)
	if claims == nil {
		return false
	}
	return claims.Sub == userID || claims.IsAdmin()
}

// UserID returns the authenticated user id, or "" for anonymous callers.
func UserID(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.Sub
	}
	return ""
}

// RequireAdmin returns middleware that rejects callers without the admin role.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(r.Context()) {
				response.WriteError(w, http.StatusForbidden, "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
