package handler

import (
	"encoding/json"
	"net/http"

	"go-forum-api/internal/middleware"
	"go-forum-api/internal/model"
	"go-forum-api/internal/service"
	"go-forum-api/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login responds with the raw signed token as text/plain. Existing clients
// read the body verbatim, so the response is not wrapped in the JSON envelope.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	token, err := h.service.Login(r.Context(), payload.UserName, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(token))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	user, err := h.service.Register(r.Context(), payload.UserName, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.PublicUser{
		ID:       user.ID,
		UserName: user.UserName,
		Roles:    user.Roles,
		Banned:   user.Banned,
	}, nil)
}

// Me echoes the claims of the presented token: subject, roles, issue and
// expiry instants. Reauth flows use it to inspect what they hold.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"sub":        claims.Subject,
		"user_roles": claims.Roles,
		"iat":        claims.IssuedAt,
		"exp":        claims.ExpiresAt,
	}, nil)
}
