package api

import (
	"net/http"
	"strings"

	"auth-backend/internal/auth"
)

// AuthMiddleware verifies the session credential on protected routes and
// places its claims into the request context. The credential is read from
// the cookie (Web) or an Authorization header (SPA/Mobile). Expired and
// tampered credentials get the same answer on purpose.
func AuthMiddleware(codec *auth.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractCredential(r)
			if raw == "" {
				writeUnauthorized(w, "missing authentication token")
				return
			}

			claims, err := codec.Verify(raw)
			if err != nil {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), claims)))
		})
	}
}

// extractCredential extracts the credential from cookie or Authorization header.
func extractCredential(r *http.Request) string {
	// 1. Try cookie first (for Web applications)
	if cookie, err := r.Cookie(CredentialCookieName); err == nil {
		return cookie.Value
	}

	// 2. Try Authorization header (for SPA/Mobile applications)
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	return ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
