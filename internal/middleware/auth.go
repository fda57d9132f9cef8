// Package middleware provides the HTTP middleware shared by all routes.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mmynk/moneymates/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ProfileIDKey is the context key for storing the signed-in profile id.
const ProfileIDKey contextKey = "profile_id"

// GetProfileID extracts the profile id from the context.
// Returns empty string if not found.
func GetProfileID(ctx context.Context) string {
	profileID, _ := ctx.Value(ProfileIDKey).(string)
	return profileID
}

// WithProfileID returns a copy of ctx carrying profileID.
func WithProfileID(ctx context.Context, profileID string) context.Context {
	return context.WithValue(ctx, ProfileIDKey, profileID)
}

// bearerToken returns the token from the Authorization header, or from the
// token query parameter for clients such as EventSource that cannot set
// headers.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if token := r.URL.Query().Get("token"); token != "" {
			return token, nil
		}
		return "", auth.ErrMissingToken
	}

	// Parse Bearer token
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

// RequireAuth returns a middleware that validates the session token and
// adds the profile id to the request context.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				unauthorized(w, err)
				return
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithProfileID(r.Context(), claims.ProfileID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
