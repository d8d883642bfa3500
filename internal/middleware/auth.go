package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-forum-api/internal/auth"
	"go-forum-api/internal/model"
)

type contextKey string

const (
	principalContextKey contextKey = "auth_principal"
	claimsContextKey    contextKey = "auth_claims"
)

// AuthMiddleware binds the principal extractor to the router. All token
// handling lives in the auth package; this layer only translates errors to
// HTTP statuses and parks the result in the request context.
type AuthMiddleware struct {
	secret *auth.Secret
	bans   *auth.BanList
}

func NewAuthMiddleware(secret *auth.Secret, bans *auth.BanList) *AuthMiddleware {
	return &AuthMiddleware{secret: secret, bans: bans}
}

// RequireRole gates a route on holding the given role.
func (m *AuthMiddleware) RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := auth.ExtractPrincipal(
				r.Header.Values("Authorization"), m.secret, m.bans, role, time.Now().UTC())
			if err != nil {
				writeAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireClaims authenticates without a role gate: signature and expiry only.
// Used by reauth-style endpoints that inspect their own claims.
func (m *AuthMiddleware) RequireClaims(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.ExtractClaims(r.Header.Values("Authorization"), m.secret, time.Now().UTC())
		if err != nil {
			writeAuthError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(auth.Principal)
	return principal, ok
}

func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(auth.Claims)
	return claims, ok
}

func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "Unexpected server error"

	switch {
	case errors.Is(err, auth.ErrMissingToken):
		status, code, message = http.StatusUnauthorized, "MISSING_TOKEN", "authorization header is required"
	case errors.Is(err, auth.ErrMalformedToken):
		status, code, message = http.StatusUnauthorized, "MALFORMED_TOKEN", "authorization header must be a single Bearer credential"
	case errors.Is(err, auth.ErrIllegalToken):
		status, code, message = http.StatusUnauthorized, "ILLEGAL_TOKEN", "token is invalid"
	case errors.Is(err, auth.ErrExpiredToken):
		status, code, message = http.StatusUnauthorized, "EXPIRED_TOKEN", "token has expired"
	case errors.Is(err, auth.ErrNotAuthorized):
		status, code, message = http.StatusForbidden, "FORBIDDEN", "insufficient role"
	case errors.Is(err, auth.ErrBanned):
		// Historically a 401 rather than 403; the distinct code keeps it
		// distinguishable from signature failures.
		status, code, message = http.StatusUnauthorized, "BANNED", "user is banned"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error:   &model.APIError{Code: code, Message: message},
	})
}
