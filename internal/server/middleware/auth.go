// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// accountIDKey is the context key for storing the authenticated account ID.
const accountIDKey ContextKey = "accountID"

// TokenValidator is an interface for validating JWT tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (AccountIDGetter, error)
}

// AccountIDGetter is an interface for extracting the account ID from token claims.
type AccountIDGetter interface {
	GetAccountID() uuid.UUID
}

// AuthMiddleware creates middleware that validates JWT tokens and adds the
// account ID to the request context.
func AuthMiddleware(jwtService TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Parse Bearer token
			// Handle case-insensitive "Bearer" prefix
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Validate token
			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Add account ID to request context
			ctx := context.WithValue(r.Context(), accountIDKey, claims.GetAccountID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAccountID extracts the authenticated account ID from the request context.
func GetAccountID(r *http.Request) (uuid.UUID, error) {
	accountID, ok := r.Context().Value(accountIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("account ID not found in request context")
	}
	return accountID, nil
}

// AccountIDKey returns the context key for the account ID (for testing purposes).
func AccountIDKey() ContextKey {
	return accountIDKey
}
