package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-otp-auth/internal/application/profile"
	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/validate"
	"github.com/go-otp-auth/internal/transport/http/middleware"
)

// ProfileHandler handles the authenticated user's profile and address book.
type ProfileHandler struct {
	svc profile.Service
}

func NewProfileHandler(svc profile.Service) *ProfileHandler { return &ProfileHandler{svc: svc} }

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	p, err := h.svc.Get(r.Context(), a.PhoneNumber)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.Upsert(r.Context(), a.PhoneNumber, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	p, err := h.svc.Get(r.Context(), a.PhoneNumber)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p.Addresses)
}

func (h *ProfileHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	addr, err := h.svc.AddAddress(r.Context(), a.PhoneNumber, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, addr)
}

func (h *ProfileHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	addr, err := h.svc.UpdateAddress(r.Context(), a.PhoneNumber, chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, addr)
}

func (h *ProfileHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.DeleteAddress(r.Context(), a.PhoneNumber, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "address deleted"})
}

func (h *ProfileHandler) EmailAction(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	switch chi.URLParam(r, "action") {
	case "request":
		if err := h.svc.RequestEmailConfirmation(r.Context(), a.PhoneNumber); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "confirmation email sent"})
	case "confirm":
		var body struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := h.svc.ConfirmEmail(r.Context(), a.PhoneNumber, body.Token); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email confirmed"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
