package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/api/response"
)

func TestPathID_Missing(t *testing.T) {
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodGet, "/x/", nil), "id", "")

	_, ok := pathID(rec, r, "id")

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "missing required ID")
}

func TestPathID_Present(t *testing.T) {
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodGet, "/x/"+validID, nil), "id", validID)

	id, ok := pathID(rec, r, "id")

	assert.True(t, ok)
	assert.Equal(t, validID, id)
}

func TestClaims_Anonymous(t *testing.T) {
	rec := httptest.NewRecorder()

	_, ok := claims(rec, newRequest(http.MethodGet, "/me", nil))

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOwnerOrAdmin(t *testing.T) {
	tests := []struct {
		name   string
		req    *http.Request
		want   bool
		status int
	}{
		{"owner", withCustomer(newRequest(http.MethodGet, "/", nil), "u1"), true, http.StatusOK},
		{"other customer", withCustomer(newRequest(http.MethodGet, "/", nil), "u2"), false, http.StatusForbidden},
		{"admin", withAdmin(newRequest(http.MethodGet, "/", nil)), true, http.StatusOK},
		{"anonymous", newRequest(http.MethodGet, "/", nil), false, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			assert.Equal(t, tt.want, ownerOrAdmin(rec, tt.req, "u1"))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestWritePage_NilItemsAndCursor(t *testing.T) {
	rec := httptest.NewRecorder()
	var items []string

	writePage(rec, request.ListParams{Limit: 2, Cursor: "4"}, items, false)

	var body response.PaginatedResponse
	require.NoError(t, jsonDecode(rec, &body))
	assert.Equal(t, []any{}, body.Items)
	assert.False(t, body.HasMore)
	assert.Empty(t, body.NextCursor)

	rec = httptest.NewRecorder()
	writePage(rec, request.ListParams{Limit: 2, Cursor: "4"}, []string{"a", "b"}, true)
	require.NoError(t, jsonDecode(rec, &body))
	assert.True(t, body.HasMore)
	assert.Equal(t, "6", body.NextCursor)
}
