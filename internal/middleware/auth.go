package middleware

import (
	"context"
	"net/http"

	"github.com/nsaetang/taskcal/internal/auth"
	"github.com/nsaetang/taskcal/internal/logger"
)

// AccessTokenCookie is the credential carrier for protected routes. The
// browser client stores tokens in HttpOnly cookies, so the guard reads the
// cookie rather than an Authorization header.
const AccessTokenCookie = "accessToken"

type contextKey string

const claimsKey contextKey = "claims"

type AuthMiddleware struct {
	tokens *auth.JWTManager
	log    *logger.Logger
}

func NewAuthMiddleware(tokens *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		log:    logger.New("auth-middleware"),
	}
}

// RequireAuth gates a protected handler. A missing credential is 401, a
// credential that fails verification is 403. On success the decoded claims
// ride the request context; the handler never runs on a failed check.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(AccessTokenCookie)
		if err != nil || cookie.Value == "" {
			http.Error(w, "Unauthorized: access token missing", http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.ValidateToken(cookie.Value)
		if err != nil {
			m.log.Warn("rejected access token: %v", err)
			http.Error(w, "Forbidden: invalid or expired token", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetClaims returns the verified claims attached by RequireAuth, or nil when
// the request did not pass through the guard.
func GetClaims(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// GetUserID is a convenience accessor for handlers that only need the
// authenticated identity.
func GetUserID(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}
