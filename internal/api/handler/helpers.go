package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/tekashi/storefront/internal/api/middleware"
	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/model"
)

// pathID reads a required URL parameter, writing 400 when it is empty.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id, err := request.RequireID(chi.URLParam(r, name))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

// claims returns the caller's claims, writing 401 when the request is
// anonymous.
func claims(w http.ResponseWriter, r *http.Request) (*model.JWTClaims, bool) {
	c := mw.GetClaims(r.Context())
	if c == nil {
		response.WriteError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return c, true
}

// ownerOrAdmin writes 403 unless the caller is userID or an admin.
func ownerOrAdmin(w http.ResponseWriter, r *http.Request, userID string) bool {
	if !mw.IsOwnerOrAdmin(r.Context(), userID) {
		response.WriteError(w, http.StatusForbidden, "not allowed to access this resource")
		return false
	}
	return true
}

// writePage writes one page of items with an offset cursor for the next.
func writePage[T any](w http.ResponseWriter, params request.ListParams, items []T, hasMore bool) {
	if items == nil {
		items = []T{}
	}
	response.WritePaginated(w, http.StatusOK, items,
		request.NextCursor(params.Cursor, len(items), hasMore), hasMore)
}

// decode reads and validates a JSON body, writing 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := request.Decode(r, v); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
