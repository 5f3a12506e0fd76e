package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dustwatch/dustwatch/internal/api/models"
	"github.com/dustwatch/dustwatch/internal/auth"
)

// deviceIDKey is the context key for the authenticated device ID.
type deviceIDKey struct{}

// Auth creates authentication middleware that validates device bearer tokens.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract bearer token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, r, "missing authorization header")
				return
			}

			// Check for Bearer prefix (case-insensitive)
			const bearerPrefix = "Bearer "
			if len(authHeader) < len(bearerPrefix) ||
				!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
				writeUnauthorized(w, r, "invalid authorization header format")
				return
			}

			tokenString := authHeader[len(bearerPrefix):]
			if tokenString == "" {
				writeUnauthorized(w, r, "missing bearer token")
				return
			}

			// Validate the token
			deviceID, err := authService.Validate(tokenString)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrDeviceTokenExpired):
					writeUnauthorized(w, r, "device token has expired")
				case errors.Is(err, auth.ErrInvalidDeviceToken):
					writeUnauthorized(w, r, "invalid device token")
				default:
					writeUnauthorized(w, r, "authentication failed")
				}
				return
			}

			// Add device ID to context
			ctx := context.WithValue(r.Context(), deviceIDKey{}, deviceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth validates a bearer token when one is present but never
// rejects the request. Handlers see an empty device ID for anonymous or
// invalid-token requests.
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			if len(authHeader) > len(bearerPrefix) &&
				strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
				if deviceID, err := authService.Validate(authHeader[len(bearerPrefix):]); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), deviceIDKey{}, deviceID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeUnauthorized writes a 401 Unauthorized response.
// This is implemented directly here to avoid import cycle with response package.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	traceID := GetRequestID(r.Context())
	problem := models.NewUnauthorized(traceID, detail)
	problem.Instance = r.URL.Path
	problem.Write(w)
}

// GetDeviceID retrieves the authenticated device ID from the context.
// Returns an empty string if not authenticated.
func GetDeviceID(ctx context.Context) string {
	if id, ok := ctx.Value(deviceIDKey{}).(string); ok {
		return id
	}
	return ""
}
