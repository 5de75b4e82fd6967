package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pantryhub/pantry/internal/models"
)

type contextKey string

const UserContextKey contextKey = "user"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

// RequireAuth resolves the bearer token to a user and stores it in the
// request context. Requests without a valid token get a JSON 401.
func RequireAuth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			user, err := authenticator.Authenticate(r.Context(), tokenString)
			if err != nil {
				slog.Debug("rejecting token", "error", err)
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || strings.TrimSpace(tokenString) == "" {
		return "", false
	}
	return strings.TrimSpace(tokenString), true
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func GetUser(ctx context.Context) models.User {
	user, _ := ctx.Value(UserContextKey).(models.User)
	return user
}
