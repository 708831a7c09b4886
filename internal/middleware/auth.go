package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/yethikrishna/y0-waitlist-builder/internal/auth"
	"github.com/yethikrishna/y0-waitlist-builder/internal/constants"
	"github.com/yethikrishna/y0-waitlist-builder/internal/logging"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/dtos"
)

// AuthMiddleware resolves the bearer credential to user claims. Why the
// credential was rejected stays in the logs; the client only sees
// "Unauthorized".
func AuthMiddleware(verifier *auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respondAuthError(w, http.StatusUnauthorized, constants.MsgUnauthorized)
				return
			}

			claims, err := verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				logging.Warn("Rejected bearer credential", "error", err.Error())
				respondAuthError(w, http.StatusUnauthorized, constants.MsgUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondAuthError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(dtos.ErrorResponse{Error: message})
}
