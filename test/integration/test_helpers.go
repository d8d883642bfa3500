//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"go-forum-api/internal/auth"
	"go-forum-api/internal/config"
	"go-forum-api/internal/handler"
	"go-forum-api/internal/middleware"
	"go-forum-api/internal/model"
	"go-forum-api/internal/router"
	"go-forum-api/internal/service"
)

type memoryStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*model.User
	buckets   map[uuid.UUID]model.Bucket
	questions map[uuid.UUID]model.Question
	answers   map[uuid.UUID]model.Answer
	articles  map[uuid.UUID]model.Article
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:     map[uuid.UUID]*model.User{},
		buckets:   map[uuid.UUID]model.Bucket{},
		questions: map[uuid.UUID]model.Question{},
		answers:   map[uuid.UUID]model.Answer{},
		articles:  map[uuid.UUID]model.Article{},
	}
}

// UserStore

func (s *memoryStore) FindByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, auth.ErrUnknownUser
	}
	return *u, nil
}

func (s *memoryStore) FindByUserName(_ context.Context, userName string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.UserName, userName) {
			return *u, nil
		}
	}
	return model.User{}, auth.ErrUnknownUser
}

func (s *memoryStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.UserName, u.UserName) {
			return model.ErrUserAlreadyExists
		}
	}
	s.users[u.ID] = &u
	return nil
}

func (s *memoryStore) RecordFailedLogin(_ context.Context, userID uuid.UUID, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return 0, auth.ErrUnknownUser
	}
	u.FailedLoginCount++
	until := now.Add(time.Duration(2*u.FailedLoginCount) * time.Second)
	u.LockedUntil = &until
	return u.FailedLoginCount, nil
}

func (s *memoryStore) ClearLock(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.LockedUntil = nil
	}
	return nil
}

func (s *memoryStore) ResetFailedLogins(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.FailedLoginCount = 0
		u.LockedUntil = nil
	}
	return nil
}

func (s *memoryStore) SetBanned(_ context.Context, userID uuid.UUID, banned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return auth.ErrUnknownUser
	}
	u.Banned = banned
	return nil
}

func (s *memoryStore) SetRoles(_ context.Context, userID uuid.UUID, roles []model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return auth.ErrUnknownUser
	}
	u.Roles = roles
	return nil
}

func (s *memoryStore) ListBannedIDs(_ context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uuid.UUID, 0)
	for id, u := range s.users {
		if u.Banned {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *memoryStore) List(_ context.Context) ([]model.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]model.PublicUser, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, model.PublicUser{ID: u.ID, UserName: u.UserName, Roles: u.Roles, Banned: u.Banned})
	}
	return users, nil
}

// BucketStore

func (s *memoryStore) CreateBucket(_ context.Context, b model.Bucket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[b.ID] = b
	return nil
}

func (s *memoryStore) FindBucketByID(_ context.Context, id uuid.UUID) (model.Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[id]
	if !ok {
		return model.Bucket{}, model.ErrBucketNotFound
	}
	return b, nil
}

func (s *memoryStore) ListBuckets(_ context.Context) ([]model.Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buckets := make([]model.Bucket, 0, len(s.buckets))
	for _, b := range s.buckets {
		buckets = append(buckets, b)
	}
	return buckets, nil
}

func (s *memoryStore) DeleteBucket(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[id]; !ok {
		return model.ErrBucketNotFound
	}
	delete(s.buckets, id)
	return nil
}

// QuestionStore

func (s *memoryStore) CreateQuestion(_ context.Context, q model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
	return nil
}

func (s *memoryStore) FindQuestionByID(_ context.Context, id uuid.UUID) (model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return model.Question{}, model.ErrQuestionNotFound
	}
	return q, nil
}

func (s *memoryStore) ListQuestionsByBucket(_ context.Context, bucketID uuid.UUID) ([]model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	questions := make([]model.Question, 0)
	for _, q := range s.questions {
		if q.BucketID == bucketID {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func (s *memoryStore) DeleteQuestion(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return model.ErrQuestionNotFound
	}
	delete(s.questions, id)
	return nil
}

// AnswerStore

func (s *memoryStore) CreateAnswer(_ context.Context, a model.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[a.ID] = a
	return nil
}

func (s *memoryStore) ListAnswersByQuestion(_ context.Context, questionID uuid.UUID) ([]model.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	answers := make([]model.Answer, 0)
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			answers = append(answers, a)
		}
	}
	return answers, nil
}

// ArticleStore

func (s *memoryStore) CreateArticle(_ context.Context, a model.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[a.ID] = a
	return nil
}

func (s *memoryStore) ListArticles(_ context.Context) ([]model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	articles := make([]model.Article, 0, len(s.articles))
	for _, a := range s.articles {
		articles = append(articles, a)
	}
	return articles, nil
}

// Named adapter types so one memoryStore can satisfy the per-entity store
// interfaces despite the overlapping method names.

type bucketStoreAdapter struct{ *memoryStore }

func (a bucketStoreAdapter) Create(ctx context.Context, b model.Bucket) error {
	return a.CreateBucket(ctx, b)
}
func (a bucketStoreAdapter) FindByID(ctx context.Context, id uuid.UUID) (model.Bucket, error) {
	return a.FindBucketByID(ctx, id)
}
func (a bucketStoreAdapter) List(ctx context.Context) ([]model.Bucket, error) {
	return a.ListBuckets(ctx)
}
func (a bucketStoreAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return a.DeleteBucket(ctx, id)
}

type questionStoreAdapter struct{ *memoryStore }

func (a questionStoreAdapter) Create(ctx context.Context, q model.Question) error {
	return a.CreateQuestion(ctx, q)
}
func (a questionStoreAdapter) FindByID(ctx context.Context, id uuid.UUID) (model.Question, error) {
	return a.FindQuestionByID(ctx, id)
}
func (a questionStoreAdapter) ListByBucket(ctx context.Context, bucketID uuid.UUID) ([]model.Question, error) {
	return a.ListQuestionsByBucket(ctx, bucketID)
}
func (a questionStoreAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return a.DeleteQuestion(ctx, id)
}

type answerStoreAdapter struct{ *memoryStore }

func (a answerStoreAdapter) Create(ctx context.Context, ans model.Answer) error {
	return a.CreateAnswer(ctx, ans)
}
func (a answerStoreAdapter) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error) {
	return a.ListAnswersByQuestion(ctx, questionID)
}

type articleStoreAdapter struct{ *memoryStore }

func (a articleStoreAdapter) Create(ctx context.Context, art model.Article) error {
	return a.CreateArticle(ctx, art)
}
func (a articleStoreAdapter) List(ctx context.Context) ([]model.Article, error) {
	return a.ListArticles(ctx)
}

type testEnv struct {
	server *httptest.Server
	store  *memoryStore
	secret *auth.Secret
	bans   *auth.BanList
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	secret, err := auth.NewSecret(strings.Repeat("integration-secret-", 14))
	require.NoError(t, err)

	store := newMemoryStore()
	bans := auth.NewBanList()
	scryptParams := auth.ScryptParams{N: 1024, R: 8, P: 1}
	authService := service.NewAuthService(store, secret, bans, 24*time.Hour, scryptParams)
	forumService := service.NewForumService(
		bucketStoreAdapter{store}, questionStoreAdapter{store},
		answerStoreAdapter{store}, articleStoreAdapter{store})

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
		CORSOrigins:      []string{"*"},
	}

	authMiddleware := middleware.NewAuthMiddleware(secret, bans)
	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:  handler.NewAuthHandler(authService),
		User:  handler.NewUserHandler(authService, store),
		Forum: handler.NewForumHandler(forumService),
	})

	server := httptest.NewServer(appRouter)
	t.Cleanup(server.Close)

	return &testEnv{server: server, store: store, secret: secret, bans: bans}
}

// seedUser creates a user directly in the store with the given roles.
func (e *testEnv) seedUser(t *testing.T, userName string, password string, roles ...model.Role) model.User {
	t.Helper()

	hash, err := auth.HashPassword(password, auth.ScryptParams{N: 1024, R: 8, P: 1})
	require.NoError(t, err)

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.New(),
		UserName:     userName,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.store.Create(context.Background(), user))
	return user
}

// login POSTs credentials and returns the raw response.
func (e *testEnv) login(t *testing.T, userName string, password string) *http.Response {
	t.Helper()

	payload, err := json.Marshal(model.LoginRequest{UserName: userName, Password: password})
	require.NoError(t, err)

	resp, err := http.Post(e.server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// loginToken logs in and asserts success, returning the token body.
func (e *testEnv) loginToken(t *testing.T, userName string, password string) string {
	t.Helper()

	resp := e.login(t, userName, password)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return buf.String()
}

func (e *testEnv) doAuthed(t *testing.T, method string, path string, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)

	var out T
	require.NoError(t, json.Unmarshal(envelope.Data, &out))
	return out
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()

	var envelope model.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error.Code
}
