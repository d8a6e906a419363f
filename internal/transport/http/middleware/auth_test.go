package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-otp-auth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	valid map[string]string // token -> subject
}

func (v *stubValidator) Validate(token string) bool {
	_, ok := v.valid[token]
	return ok
}

func (v *stubValidator) ExtractSubject(token string) string {
	return v.valid[token]
}

type stubUsers struct {
	users map[string]*domain.User
}

func (s *stubUsers) Get(_ context.Context, phoneNumber string) (*domain.User, error) {
	u, ok := s.users[phoneNumber]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

// capture records whether the downstream handler ran and what identity it saw.
type capture struct {
	called bool
	auth   *AuthContext
	ok     bool
}

func (c *capture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		c.auth, c.ok = AuthFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func newAuthenticate(publicPrefixes ...string) (func(http.Handler) http.Handler, *stubValidator, *stubUsers) {
	tokens := &stubValidator{valid: map[string]string{
		"good-token": "+15550000001",
	}}
	users := &stubUsers{users: map[string]*domain.User{
		"+15550000001": {
			PhoneNumber: "+15550000001",
			UserID:      "01ARZ3NDEKTSV4RRFFQ69G5FAV",
			Roles:       []string{domain.RoleUser},
			Enable:      true,
		},
	}}
	return Authenticate(tokens, users, publicPrefixes), tokens, users
}

func TestAuthenticate_PublicPathSkipsTokenHandling(t *testing.T) {
	mw, _, _ := newAuthenticate("/v1/auth")
	c := &capture{}

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/otp/verify", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	mw(c.handler()).ServeHTTP(rec, req)

	assert.True(t, c.called)
	assert.False(t, c.ok)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_NoHeaderProceedsAnonymously(t *testing.T) {
	mw, _, _ := newAuthenticate()
	c := &capture{}

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	rec := httptest.NewRecorder()
	mw(c.handler()).ServeHTTP(rec, req)

	assert.True(t, c.called)
	assert.False(t, c.ok)
}

func TestAuthenticate_InvalidTokenProceedsAnonymously(t *testing.T) {
	mw, _, _ := newAuthenticate()

	for _, header := range []string{
		"Bearer expired-or-tampered",
		"Bearer ",
		"Basic Zm9vOmJhcg==",
		"good-token",
	} {
		c := &capture{}
		req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		mw(c.handler()).ServeHTTP(rec, req)

		assert.True(t, c.called, "header %q", header)
		assert.False(t, c.ok, "header %q", header)
		assert.Equal(t, http.StatusOK, rec.Code, "header %q", header)
	}
}

func TestAuthenticate_ValidTokenAttachesIdentity(t *testing.T) {
	mw, _, _ := newAuthenticate()
	c := &capture{}

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	mw(c.handler()).ServeHTTP(rec, req)

	require.True(t, c.ok)
	assert.Equal(t, "+15550000001", c.auth.PhoneNumber)
	assert.Equal(t, []string{domain.RoleUser}, c.auth.Roles)
}

func TestAuthenticate_UnknownSubjectProceedsAnonymously(t *testing.T) {
	mw, tokens, _ := newAuthenticate()
	tokens.valid["orphan-token"] = "+19999999999"
	c := &capture{}

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer orphan-token")
	rec := httptest.NewRecorder()
	mw(c.handler()).ServeHTTP(rec, req)

	assert.True(t, c.called)
	assert.False(t, c.ok)
}

func TestAuthenticate_DisabledUserProceedsAnonymously(t *testing.T) {
	mw, _, users := newAuthenticate()
	users.users["+15550000001"].Enable = false
	c := &capture{}

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	mw(c.handler()).ServeHTTP(rec, req)

	assert.True(t, c.called)
	assert.False(t, c.ok)
}

func TestRequireAuth(t *testing.T) {
	c := &capture{}
	h := RequireAuth(c.handler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, c.called)

	ctx := context.WithValue(context.Background(), authKey, &AuthContext{PhoneNumber: "+15550000001"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/profile", nil).WithContext(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, c.called)
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole(domain.RoleAdmin)

	tests := []struct {
		name     string
		auth     *AuthContext
		wantCode int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"non-admin", &AuthContext{Roles: []string{domain.RoleUser}}, http.StatusForbidden},
		{"admin", &AuthContext{Roles: []string{domain.RoleUser, domain.RoleAdmin}}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &capture{}
			req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
			if tt.auth != nil {
				req = req.WithContext(context.WithValue(req.Context(), authKey, tt.auth))
			}
			rec := httptest.NewRecorder()
			mw(c.handler()).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCode == http.StatusOK, c.called)
		})
	}
}
