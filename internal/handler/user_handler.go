package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"go-forum-api/internal/model"
	"go-forum-api/internal/service"
	"go-forum-api/pkg/apierror"
)

// UserLister is the read side of user administration.
type UserLister interface {
	List(ctx context.Context) ([]model.PublicUser, error)
}

type UserHandler struct {
	service *service.AuthService
	users   UserLister
}

func NewUserHandler(service *service.AuthService, users UserLister) *UserHandler {
	return &UserHandler{service: service, users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, users, nil)
}

func (h *UserHandler) Ban(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Ban(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"banned": true}, nil)
}

func (h *UserHandler) Unban(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Unban(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"banned": false}, nil)
}

func (h *UserHandler) GrantRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	role, ok := parseRoleBody(w, r)
	if !ok {
		return
	}

	if err := h.service.GrantRole(r.Context(), userID, role); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"granted": role.String()}, nil)
}

func (h *UserHandler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	role, ok := parseRoleBody(w, r)
	if !ok {
		return
	}

	if err := h.service.RevokeRole(r.Context(), userID, role); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"revoked": role.String()}, nil)
}

func parseUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, apierror.BadRequest("invalid user id", err.Error()))
		return uuid.Nil, false
	}
	return userID, true
}

func parseRoleBody(w http.ResponseWriter, r *http.Request) (model.Role, bool) {
	defer r.Body.Close()

	var payload model.RoleChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return 0, false
	}

	role, err := model.ParseRole(payload.Role)
	if err != nil {
		writeError(w, apierror.BadRequest("invalid role", err.Error()))
		return 0, false
	}
	return role, true
}
