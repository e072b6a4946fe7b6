package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// userIDKey is the context key for the authenticated co-owner id.
const userIDKey contextKey = "user_id"

// UserID extracts the authenticated user's id from the context.
// Returns uuid.Nil when the request was not authenticated — which cannot
// happen behind RequireAuth.
func UserID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(userIDKey).(uuid.UUID)
	return id
}

// WithUserID returns ctx carrying the given user id.
// Exported for handler tests, which bypass the JWT parsing.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// authClaims are the JWT claims issued by the external identity provider.
// Only the subject (the co-owner's uuid) matters to this service.
type authClaims struct {
	jwt.RegisteredClaims
}

// RequireAuth returns a middleware that validates the Bearer token on every
// request and puts the authenticated co-owner id into the request context.
// Token issuance lives in the external identity service; this side only
// verifies the shared-secret HS256 signature and the expiry.
func RequireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeUnauthorized(w, "authorization token required")
				return
			}

			claims := &authClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !parsed.Valid {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// writeUnauthorized writes the same error envelope the handler package uses,
// duplicated here so middleware does not depend on handler.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"code": "unauthorized", "message": message},
	})
}
