package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/taskhive/api/pkg/apierror"
	"github.com/taskhive/api/pkg/jwt"
	"github.com/taskhive/api/pkg/logger"
)

// Auth-related context keys - use logger.ContextKey for consistency.
const (
	UserIDKey                      = logger.ContextKeyUserID
	UserNameKey  logger.ContextKey = "user_name"
	ClaimsKey    logger.ContextKey = "claims"
)

// GetUserID extracts the user ID from context.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetUserName extracts the user display name from context.
func GetUserName(ctx context.Context) string {
	if name, ok := ctx.Value(UserNameKey).(string); ok {
		return name
	}
	return ""
}

// GetClaims extracts the full token claims from context.
func GetClaims(ctx context.Context) *jwt.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}

// Auth validates the Bearer token and populates the request context with
// the authenticated identity.
func Auth(generator *jwt.Generator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				apierror.Unauthorized("missing or malformed authorization header").WriteJSON(w)
				return
			}

			claims, err := generator.ValidateToken(token)
			if err != nil {
				if errors.Is(err, jwt.ErrExpiredToken) {
					apierror.Unauthorized("token has expired").WriteJSON(w)
					return
				}
				apierror.Unauthorized("invalid token").WriteJSON(w)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserNameKey, claims.Name)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
