package middleware

import (
	"context"
	"net/http"

	"github.com/yethikrishna/y0-waitlist-builder/internal/auth"
	"github.com/yethikrishna/y0-waitlist-builder/internal/constants"
	"github.com/yethikrishna/y0-waitlist-builder/internal/logging"
)

// RoleChecker is the single-purpose query interface behind the admin gate.
type RoleChecker interface {
	HasRole(ctx context.Context, userID string, role constants.Role) (bool, error)
}

// IsAdminMiddleware gates bulk data access behind the admin role. The role
// lookup runs on every request; an authorization decision is never carried
// across requests.
func IsAdminMiddleware(roles RoleChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				respondAuthError(w, http.StatusUnauthorized, constants.MsgUnauthorized)
				return
			}

			isAdmin, err := roles.HasRole(r.Context(), claims.UserID(), constants.RoleAdmin)
			if err != nil {
				logging.Error("Role lookup failed", "user_id", claims.UserID(), "error", err.Error())
				respondAuthError(w, http.StatusInternalServerError, constants.MsgVerifyFailed)
				return
			}

			if !isAdmin {
				respondAuthError(w, http.StatusForbidden, constants.MsgForbiddenAdmin)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
