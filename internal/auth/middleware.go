// internal/auth/middleware.go
package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

// RequireAuth parses the Bearer token and injects the caller's Identity into
// the request context. Requests without a valid token are rejected.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerSchema = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerSchema) {
				unauthorized(w, "Authorization header with Bearer token is required")
				return
			}

			id, err := ParseToken(secret, header[len(bearerSchema):])
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
