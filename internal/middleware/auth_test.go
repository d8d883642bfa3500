package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"go-forum-api/internal/auth"
	"go-forum-api/internal/model"
)

func newTestSecret(t *testing.T) *auth.Secret {
	t.Helper()

	secret, err := auth.NewSecret(strings.Repeat("m", 256))
	require.NoError(t, err)
	return secret
}

func issueToken(t *testing.T, secret *auth.Secret, subject uuid.UUID, ttl time.Duration, roles ...model.Role) string {
	t.Helper()

	now := time.Now().UTC()
	token, err := auth.EncodeToken(auth.Claims{
		Subject:   subject,
		Roles:     roles,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}, secret)
	require.NoError(t, err)
	return token
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	secret := newTestSecret(t)
	bans := auth.NewBanList()
	m := NewAuthMiddleware(secret, bans)

	subject := uuid.New()
	userToken := issueToken(t, secret, subject, time.Hour, model.RoleUnprivileged)
	adminToken := issueToken(t, secret, subject, time.Hour, model.RoleUnprivileged, model.RoleAdmin)
	expiredToken := issueToken(t, secret, subject, -time.Hour, model.RoleAdmin)

	bannedSubject := uuid.New()
	bannedToken := issueToken(t, secret, bannedSubject, time.Hour, model.RoleAdmin)
	bans.Ban(bannedSubject)

	var gotPrincipal auth.Principal
	handler := m.RequireRole(model.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		require.True(t, ok)
		gotPrincipal = principal
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"not bearer", "Basic " + adminToken, http.StatusUnauthorized, "MALFORMED_TOKEN"},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, "ILLEGAL_TOKEN"},
		{"expired token", "Bearer " + expiredToken, http.StatusUnauthorized, "EXPIRED_TOKEN"},
		{"insufficient role", "Bearer " + userToken, http.StatusForbidden, "FORBIDDEN"},
		{"banned user", "Bearer " + bannedToken, http.StatusUnauthorized, "BANNED"},
		{"authorized", "Bearer " + adminToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				require.Equal(t, tt.wantCode, decodeErrorCode(t, rec))
				return
			}
			require.Equal(t, subject, gotPrincipal.Subject)
			require.Equal(t, model.RoleAdmin, gotPrincipal.Role)
		})
	}
}

func TestRequireRoleRejectsDuplicateHeaders(t *testing.T) {
	t.Parallel()

	secret := newTestSecret(t)
	m := NewAuthMiddleware(secret, auth.NewBanList())
	token := issueToken(t, secret, uuid.New(), time.Hour, model.RoleUnprivileged)

	handler := m.RequireRole(model.RoleUnprivileged)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Add("Authorization", "Bearer "+token)
	req.Header.Add("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "MISSING_TOKEN", decodeErrorCode(t, rec))
}

func TestRequireClaims(t *testing.T) {
	t.Parallel()

	secret := newTestSecret(t)
	m := NewAuthMiddleware(secret, auth.NewBanList())

	subject := uuid.New()
	token := issueToken(t, secret, subject, time.Hour, model.RoleUnprivileged)

	handler := m.RequireClaims(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, subject, claims.Subject)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
