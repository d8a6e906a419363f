package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-otp-auth/internal/domain"
)

type contextKey string

const authKey contextKey = "auth"

// AuthContext is the authenticated identity attached to a request. It lives
// for the current request only; there is no cross-request state.
type AuthContext struct {
	PhoneNumber string
	UserID      string
	Roles       []string
}

// HasRole reports whether the authenticated identity carries the given role.
func (a *AuthContext) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type tokenValidator interface {
	Validate(token string) bool
	ExtractSubject(token string) string
}

type principalStore interface {
	Get(ctx context.Context, phoneNumber string) (*domain.User, error)
}

// Authenticate returns the per-request authentication filter. It runs before
// any business logic and has exactly two outcomes: an AuthContext is attached,
// or the request proceeds anonymously. It never writes an error response —
// rejection of anonymous requests belongs to RequireAuth/RequireRole on the
// protected route groups, so malformed, expired and tampered tokens are all
// indistinguishable from a missing one.
//
// Paths matching one of publicPrefixes skip token handling entirely.
func Authenticate(tokens tokenValidator, users principalStore, publicPrefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range publicPrefixes {
				if prefix != "" && strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			if !tokens.Validate(tokenStr) {
				next.ServeHTTP(w, r)
				return
			}

			// The filter never provisions users; a valid token whose subject
			// is gone (or disabled) degrades to anonymous.
			u, err := users.Get(r.Context(), tokens.ExtractSubject(tokenStr))
			if err != nil || !u.Enable {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), authKey, &AuthContext{
				PhoneNumber: u.PhoneNumber,
				UserID:      u.UserID,
				Roles:       u.Roles,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthFromContext extracts the authenticated identity from the request context.
func AuthFromContext(ctx context.Context) (*AuthContext, bool) {
	a, ok := ctx.Value(authKey).(*AuthContext)
	return a, ok
}

// RequireAuth rejects requests that carry no authenticated identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := AuthFromContext(r.Context()); !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that allows access only to identities
// carrying one of the provided role names (e.g. domain.RoleAdmin).
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := AuthFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			for _, role := range allowedRoles {
				if a.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSONError(w, http.StatusForbidden, "forbidden")
		})
	}
}
