//go:build integration

package integration

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-forum-api/internal/auth"
	"go-forum-api/internal/model"
)

func TestHappyLogin(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", "pw", model.RoleUnprivileged)

	resp := env.login(t, "alice", "pw")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	token := env.loginToken(t, "alice", "pw")
	claims, err := auth.DecodeToken(token, env.secret)
	require.NoError(t, err)
	require.Equal(t, alice.ID, claims.Subject)
	require.Equal(t, []model.Role{model.RoleUnprivileged}, claims.Roles)
	require.Equal(t, 86400*time.Second, claims.ExpiresAt.Sub(claims.IssuedAt))
}

func TestWrongPasswordLocksAccount(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", "pw", model.RoleUnprivileged)

	resp := env.login(t, "alice", "wrong")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	env.store.mu.Lock()
	stored := *env.store.users[alice.ID]
	env.store.mu.Unlock()
	require.Equal(t, 1, stored.FailedLoginCount)
	require.NotNil(t, stored.LockedUntil)
	require.WithinDuration(t, time.Now().UTC().Add(2*time.Second), *stored.LockedUntil, time.Second)
}

func TestLockedAccountThenRecovery(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", "pw", model.RoleUnprivileged)

	// Active lock rejects even a correct password.
	env.store.mu.Lock()
	future := time.Now().UTC().Add(time.Minute)
	env.store.users[alice.ID].FailedLoginCount = 3
	env.store.users[alice.ID].LockedUntil = &future
	env.store.mu.Unlock()

	resp := env.login(t, "alice", "pw")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "LOCKED", errorCode(t, resp))

	// Once the lock has passed the same attempt succeeds and resets failures.
	env.store.mu.Lock()
	past := time.Now().UTC().Add(-time.Minute)
	env.store.users[alice.ID].LockedUntil = &past
	env.store.mu.Unlock()

	env.loginToken(t, "alice", "pw")

	env.store.mu.Lock()
	stored := *env.store.users[alice.ID]
	env.store.mu.Unlock()
	require.Equal(t, 0, stored.FailedLoginCount)
	require.Nil(t, stored.LockedUntil)
}

func TestUnknownUserIs404(t *testing.T) {
	env := newTestEnv(t)

	resp := env.login(t, "nobody", "pw")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSplicedTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "pw", model.RoleUnprivileged)
	env.seedUser(t, "root", "pw", model.RoleAdmin)

	normalToken := env.loginToken(t, "alice", "pw")
	adminToken := env.loginToken(t, "root", "pw")

	normalParts := strings.Split(normalToken, ".")
	adminParts := strings.Split(adminToken, ".")
	spliced := normalParts[0] + "." + adminParts[1] + "." + normalParts[2]

	resp := env.doAuthed(t, http.MethodGet, "/api/v1/buckets", spliced, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "ILLEGAL_TOKEN", errorCode(t, resp))
}

func TestRoleGateReturns403(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "pw", model.RoleUnprivileged)
	token := env.loginToken(t, "alice", "pw")

	resp := env.doAuthed(t, http.MethodPost, "/api/v1/buckets", token,
		model.CreateBucketRequest{Name: "general"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestBanRevokesOutstandingTokens(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", "pw", model.RoleUnprivileged)
	env.seedUser(t, "root", "pw", model.RoleAdmin)

	aliceToken := env.loginToken(t, "alice", "pw")
	adminToken := env.loginToken(t, "root", "pw")

	// Token works before the ban.
	resp := env.doAuthed(t, http.MethodGet, "/api/v1/buckets", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.doAuthed(t, http.MethodPost, "/api/v1/users/"+alice.ID.String()+"/ban", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.doAuthed(t, http.MethodGet, "/api/v1/buckets", aliceToken, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "BANNED", errorCode(t, resp))

	resp = env.doAuthed(t, http.MethodPost, "/api/v1/users/"+alice.ID.String()+"/unban", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.doAuthed(t, http.MethodGet, "/api/v1/buckets", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMissingAndMalformedAuthorization(t *testing.T) {
	env := newTestEnv(t)

	resp := env.doAuthed(t, http.MethodGet, "/api/v1/buckets", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "MISSING_TOKEN", errorCode(t, resp))

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/v1/buckets", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Token abc")

	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Body.Close() })
	require.Equal(t, http.StatusUnauthorized, raw.StatusCode)
	require.Equal(t, "MALFORMED_TOKEN", errorCode(t, raw))
}

func TestMeEchoesClaims(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", "pw", model.RoleUnprivileged)
	token := env.loginToken(t, "alice", "pw")

	resp := env.doAuthed(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeData[map[string]any](t, resp)
	require.Equal(t, alice.ID.String(), data["sub"])
}

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.doAuthed(t, http.MethodPost, "/api/v1/auth/register", "",
		model.RegisterRequest{UserName: "bob", Password: "hunter2"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeData[model.PublicUser](t, resp)
	require.Equal(t, "bob", created.UserName)
	require.Equal(t, []model.Role{model.RoleUnprivileged}, created.Roles)

	env.loginToken(t, "bob", "hunter2")

	// Duplicate names conflict.
	resp = env.doAuthed(t, http.MethodPost, "/api/v1/auth/register", "",
		model.RegisterRequest{UserName: "bob", Password: "other"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestBanPersistsAcrossRestart(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", "pw", model.RoleUnprivileged)
	require.NoError(t, env.store.SetBanned(context.Background(), alice.ID, true))

	// A fresh ban list seeded from the store sees the persisted flag.
	fresh := auth.NewBanList()
	ids, err := env.store.ListBannedIDs(context.Background())
	require.NoError(t, err)
	for _, id := range ids {
		fresh.Ban(id)
	}
	require.True(t, fresh.IsBanned(alice.ID))
}
