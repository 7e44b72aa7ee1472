package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekashi/storefront/internal/core"
	"github.com/tekashi/storefront/internal/model"
)

type fakeTokens map[string]*model.JWTClaims

func (f fakeTokens) ValidateToken(token string) (*model.JWTClaims, error) {
	if c, ok := f[token]; ok {
		return c, nil
	}
	return nil, errors.New("token expired")
}

var testTokens = fakeTokens{
	"customer-token": {Sub: "u1", Role: model.RoleCustomer},
	"admin-token":    {Sub: "admin-1", Role: model.RoleAdmin},
}

type fakeUsers map[string]*model.User

func (f fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("get user %s: %w", id, core.ErrNotFound)
}

var testUsers = fakeUsers{
	"u1":      {ID: "u1", Email: "u1@example.com", Role: model.RoleCustomer, Active: true},
	"admin-1": {ID: "admin-1", Email: "admin@example.com", Role: model.RoleAdmin, Active: true},
}

// echoSub writes the caller's subject, or "anonymous".
var echoSub = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	sub := UserID(r.Context())
	if sub == "" {
		sub = "anonymous"
	}
	w.Write([]byte(sub))
})

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, "missing authorization header"},
		{"basic auth", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "invalid authorization format"},
		{"expired", "Bearer stale", http.StatusUnauthorized, "token expired"},
		{"valid", "Bearer customer-token", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Auth(testTokens, testUsers)(echoSub).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "u1", rec.Body.String())
			} else {
				assert.Equal(t, tt.body, errorBody(t, rec))
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no token", "", "anonymous"},
		{"invalid token", "Bearer stale", "anonymous"},
		{"valid token", "Bearer customer-token", "u1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			OptionalAuth(testTokens, testUsers)(echoSub).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	h := Auth(testTokens, testUsers)(RequireAdmin()(echoSub))

	req := httptest.NewRequest("GET", "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer customer-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin access required", errorBody(t, rec))

	req = httptest.NewRequest("GET", "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIsOwnerOrAdmin(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.False(t, IsOwnerOrAdmin(req.Context(), "u1"))

	ctx := WithClaims(req.Context(), testTokens["customer-token"])
	assert.True(t, IsOwnerOrAdmin(ctx, "u1"))
	assert.False(t, IsOwnerOrAdmin(ctx, "u2"))

	ctx = WithClaims(req.Context(), testTokens["admin-token"])
	assert.True(t, IsOwnerOrAdmin(ctx, "u2"))
}

func TestExtractBearer(t *testing.T) {
	assert.Equal(t, "abc", extractBearer("Bearer abc"))
	assert.Equal(t, "", extractBearer("abc"))
	assert.Equal(t, "", extractBearer(""))
}

func TestRequireAdmin_DemotedAdmin(t *testing.T) {
	users := fakeUsers{
		"admin-1": {ID: "admin-1", Role: model.RoleCustomer, Active: true},
	}
	h := Auth(testTokens, users)(RequireAdmin()(echoSub))

	req := httptest.NewRequest("GET", "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin access required", errorBody(t, rec))
}

func TestAuth_DeactivatedUser(t *testing.T) {
	users := fakeUsers{
		"u1": {ID: "u1", Role: model.RoleCustomer, Active: false},
	}

	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer customer-token")
	rec := httptest.NewRecorder()
	Auth(testTokens, users)(echoSub).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "account disabled", errorBody(t, rec))

	req = httptest.NewRequest("GET", "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer customer-token")
	rec = httptest.NewRecorder()
	OptionalAuth(testTokens, users)(echoSub).ServeHTTP(rec, req)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestAuth_DeletedUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer customer-token")
	rec := httptest.NewRecorder()
	Auth(testTokens, fakeUsers{})(echoSub).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "account not found", errorBody(t, rec))
}

type failingUsers struct{}

func (failingUsers) GetByID(context.Context, string) (*model.User, error) {
	return nil, errors.New("connection refused")
}

func TestAuth_UserLookupFailure(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer customer-token")
	rec := httptest.NewRecorder()
	Auth(testTokens, failingUsers{})(echoSub).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", errorBody(t, rec))
}
