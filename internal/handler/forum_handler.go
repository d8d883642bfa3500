package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"go-forum-api/internal/auth"
	"go-forum-api/internal/middleware"
	"go-forum-api/internal/model"
	"go-forum-api/internal/service"
	"go-forum-api/pkg/apierror"
)

type ForumHandler struct {
	service *service.ForumService
}

func NewForumHandler(service *service.ForumService) *ForumHandler {
	return &ForumHandler{service: service}
}

func (h *ForumHandler) CreateBucket(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	defer r.Body.Close()

	var payload model.CreateBucketRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	bucket, err := h.service.CreateBucket(r.Context(), principal.Subject, payload.Name, payload.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, bucket, nil)
}

func (h *ForumHandler) ListBuckets(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.service.ListBuckets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, buckets, nil)
}

func (h *ForumHandler) DeleteBucket(w http.ResponseWriter, r *http.Request) {
	bucketID, ok := parsePathID(w, r, "bucket_id")
	if !ok {
		return
	}

	if err := h.service.DeleteBucket(r.Context(), bucketID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": bucketID}, nil)
}

func (h *ForumHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	bucketID, ok := parsePathID(w, r, "bucket_id")
	if !ok {
		return
	}
	defer r.Body.Close()

	var payload model.CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	question, err := h.service.AskQuestion(r.Context(), bucketID, principal.Subject, payload.Title, payload.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, question, nil)
}

func (h *ForumHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	bucketID, ok := parsePathID(w, r, "bucket_id")
	if !ok {
		return
	}

	questions, err := h.service.ListQuestions(r.Context(), bucketID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, questions, nil)
}

func (h *ForumHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, ok := parsePathID(w, r, "question_id")
	if !ok {
		return
	}

	if err := h.service.DeleteQuestion(r.Context(), questionID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": questionID}, nil)
}

func (h *ForumHandler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	questionID, ok := parsePathID(w, r, "question_id")
	if !ok {
		return
	}
	defer r.Body.Close()

	var payload model.CreateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	answer, err := h.service.AnswerQuestion(r.Context(), questionID, principal.Subject, payload.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, answer, nil)
}

func (h *ForumHandler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	questionID, ok := parsePathID(w, r, "question_id")
	if !ok {
		return
	}

	answers, err := h.service.ListAnswers(r.Context(), questionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, answers, nil)
}

func (h *ForumHandler) PublishArticle(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	defer r.Body.Close()

	var payload model.CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	article, err := h.service.PublishArticle(r.Context(), principal.Subject, payload.Title, payload.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, article, nil)
}

func (h *ForumHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := h.service.ListArticles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, articles, nil)
}

func requirePrincipal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return auth.Principal{}, false
	}
	return principal, true
}

func parsePathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, apierror.BadRequest("invalid "+param, err.Error()))
		return uuid.Nil, false
	}
	return id, true
}
