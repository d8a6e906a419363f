package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-otp-auth/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps the verify-otp response.
type AuthEnvelope struct {
	Bearer string       `json:"Bearer,omitempty"`
	User   *domain.User `json:"user,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// PaginatedUsersEnvelope wraps cursor-paginated user list responses.
type PaginatedUsersEnvelope struct {
	Data       []domain.User `json:"data"`
	NextCursor string        `json:"next_cursor,omitempty"`
	Error      string        `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps a service error to an HTTP status via the domain sentinels.
// Provider-pipeline kinds get distinct statuses so clients can tell a
// retryable backend fault (503) from a rejected code (401); a provider
// contract violation surfaces as a bad gateway, never as "your OTP was wrong".
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownProvider):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrVerificationFailed):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrProviderUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrMissingIdentity):
		writeError(w, http.StatusBadGateway, "otp provider misbehaved")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
