package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// AuthAPIKey returns middleware that validates the Authorization header
// against the configured API key. Comparison is constant time.
func AuthAPIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logrus.Warn("Missing Authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, map[string]string{"error": "Authorization header is required"})
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				logrus.Warn("Malformed Authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, map[string]string{"error": "Authorization header format must be Bearer {token}"})
				return
			}

			if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(apiKey)) != 1 {
				logrus.Warn("Invalid API key attempt")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, map[string]string{"error": "Invalid API key"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
