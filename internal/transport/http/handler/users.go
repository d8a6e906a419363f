package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-otp-auth/internal/application/user"
	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/validate"
	"github.com/go-otp-auth/internal/transport/http/middleware"
)

// UserHandler handles user directory endpoints.
type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	users, next, err := h.svc.List(r.Context(), limit, r.URL.Query().Get("cursor"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PaginatedUsersEnvelope{Data: users, NextCursor: next})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	target := chi.URLParam(r, "phone")
	if a.PhoneNumber != target && !a.HasRole(domain.RoleAdmin) {
		writeError(w, http.StatusForbidden, "cannot read another user")
		return
	}
	u, err := h.svc.Get(r.Context(), target)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) AssignRoles(w http.ResponseWriter, r *http.Request) {
	var req domain.AssignRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.svc.AssignRoles(r.Context(), chi.URLParam(r, "phone"), req.Roles)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "phone")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "user disabled"})
}
