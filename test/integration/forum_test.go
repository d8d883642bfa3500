//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"go-forum-api/internal/model"
)

func TestForumFlowAcrossRoles(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "root", "pw", model.RoleUnprivileged, model.RoleAdmin)
	env.seedUser(t, "alice", "pw", model.RoleUnprivileged)
	env.seedUser(t, "mod", "pw", model.RoleUnprivileged, model.RoleModerator)
	env.seedUser(t, "press", "pw", model.RoleUnprivileged, model.RolePublisher)

	adminToken := env.loginToken(t, "root", "pw")
	aliceToken := env.loginToken(t, "alice", "pw")
	modToken := env.loginToken(t, "mod", "pw")
	pressToken := env.loginToken(t, "press", "pw")

	// Admin creates a bucket.
	resp := env.doAuthed(t, http.MethodPost, "/api/v1/buckets", adminToken,
		model.CreateBucketRequest{Name: "general", Description: "anything goes"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	bucket := decodeData[model.Bucket](t, resp)

	// Normal user asks a question and answers it.
	resp = env.doAuthed(t, http.MethodPost, "/api/v1/buckets/"+bucket.ID.String()+"/questions", aliceToken,
		model.CreateQuestionRequest{Title: "how do locks work?", Body: "asking for a friend"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	question := decodeData[model.Question](t, resp)

	resp = env.doAuthed(t, http.MethodPost, "/api/v1/questions/"+question.ID.String()+"/answers", aliceToken,
		model.CreateAnswerRequest{Body: "2 seconds per failure"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.doAuthed(t, http.MethodGet, "/api/v1/questions/"+question.ID.String()+"/answers", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	answers := decodeData[[]model.Answer](t, resp)
	require.Len(t, answers, 1)

	// Moderator can delete the question; normal user cannot.
	resp = env.doAuthed(t, http.MethodDelete, "/api/v1/questions/"+question.ID.String(), aliceToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.doAuthed(t, http.MethodDelete, "/api/v1/questions/"+question.ID.String(), modToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Publisher posts an article; anyone can read it without a token.
	resp = env.doAuthed(t, http.MethodPost, "/api/v1/articles", pressToken,
		model.CreateArticleRequest{Title: "release notes", Body: "lockout arithmetic explained"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	raw, err := http.Get(env.server.URL + "/api/v1/articles")
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Body.Close() })
	require.Equal(t, http.StatusOK, raw.StatusCode)
	articles := decodeData[[]model.Article](t, raw)
	require.Len(t, articles, 1)

	// Unknown bucket is a 404.
	resp = env.doAuthed(t, http.MethodGet, "/api/v1/buckets/"+question.ID.String()+"/questions", aliceToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
