package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/biohackher/vitality-api/internal/models"
	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext extracts the user from the request context
func UserFromContext(r *http.Request) *models.User {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// WithUser returns a copy of ctx carrying the given user. Used by tests
// and by the user context middleware.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserContext creates middleware that resolves the authenticated user
// from the X-User-ID header. Authentication itself happens at the edge
// gateway; by the time a request reaches this service the header is a
// trusted, gateway-verified user id.
func UserContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("X-User-ID")
			if raw == "" {
				respondError(w, http.StatusUnauthorized, "Missing X-User-ID header")
				return
			}

			userID, err := uuid.Parse(raw)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Invalid X-User-ID header")
				return
			}

			user := &models.User{ID: userID}
			ctx := WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success": false,
		"error":   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
