// Package auth verifies bearer tokens and puts the authenticated user id
// on the request context. Every data route is user scoped; a request
// without a valid token never reaches a handler.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey struct{}

// UserID returns the authenticated user id stored by Middleware.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return id, ok
}

// Middleware rejects requests without a valid HS256 bearer token. The
// token subject is the user id.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			userID, err := parseSubject(token, secret)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseSubject(token, secret string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("parsing token: %w", err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("reading token subject: %w", err)
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parsing token subject: %w", err)
	}

	return userID, nil
}
