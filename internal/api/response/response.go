package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tekashi/storefront/internal/core"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// serviceErrors maps core sentinel errors to HTTP statuses.
var serviceErrors = []struct {
	err    error
	status int
}{
	{core.ErrNotFound, http.StatusNotFound},
	{core.ErrConflict, http.StatusConflict},
	{core.ErrInvalidInput, http.StatusBadRequest},
	{core.ErrForbidden, http.StatusForbidden},
	{core.ErrInsufficientStock, http.StatusConflict},
	{core.ErrInvalidTransition, http.StatusConflict},
	{core.ErrInsufficientPoints, http.StatusBadRequest},
	{core.ErrInvalidCredentials, http.StatusUnauthorized},
}

// WriteServiceError writes err with the status of the first matching core
// sentinel. Unknown errors are reported as 500 without their details.
func WriteServiceError(w http.ResponseWriter, err error) {
	for _, se := range serviceErrors {
		if errors.Is(err, se.err) {
			WriteError(w, se.status, err.Error())
			return
		}
	}
	WriteError(w, http.StatusInternalServerError, "internal server error")
}

// PaginatedResponse wraps a list with pagination metadata.
type PaginatedResponse struct {
	Items      any    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// WritePaginated writes a paginated JSON response.
func WritePaginated(w http.ResponseWriter, status int, items any, nextCursor string, hasMore bool) {
	WriteJSON(w, status, PaginatedResponse{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	})
}
