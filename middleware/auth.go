package middleware

import (
	"context"
	"net/http"

	"eco-swift-backend/utils"
)

// Key type for context
type contextKey string

const userContextKey = contextKey("user")

// AuthMiddleware parses a bearer token from the Authorization header and
// attaches its claims to the request context. A missing or invalid token is
// not an error: the request proceeds anonymously and operations enforce
// authentication individually.
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				if claims, err := utils.ParseToken(authHeader, secret); err == nil {
					ctx := WithClaims(r.Context(), claims)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithClaims attaches caller claims to a context.
func WithClaims(ctx context.Context, claims *utils.Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

// ClaimsFromContext returns the caller's claims, or nil for an anonymous
// request.
func ClaimsFromContext(ctx context.Context) *utils.Claims {
	claims, _ := ctx.Value(userContextKey).(*utils.Claims)
	return claims
}
