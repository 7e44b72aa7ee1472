package handler

import (
	"net/http"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/core"
)

type User struct {
	svc *core.UserService
}

func NewUser(svc *core.UserService) *User {
	return &User{svc: svc}
}

// Me godoc
//
//	@Summary		Get the current user
//	@Tags			Users
//	@Security		BearerAuth
//	@Success		200 {object} model.User
//	@Failure		401 {object} response.ErrorResponse
//	@Router			/me [get]
func (h *User) Me(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	h.get(w, r, c.Sub)
}

// UpdateMe godoc
//
//	@Summary		Update the current user's profile
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			body body request.UpdateUser true "Profile fields"
//	@Success		200 {object} model.User
//	@Failure		400 {object} response.ErrorResponse
//	@Router			/me [patch]
func (h *User) UpdateMe(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	h.update(w, r, c.Sub)
}

// List godoc
//
//	@Summary		List users
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			search query string false "Search on name or email"
//	@Param			role query string false "Filter by role"
//	@Param			active query bool false "Filter by active flag"
//	@Param			limit query int false "Page size" default(50)
//	@Param			cursor query string false "Pagination cursor"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.User}
//	@Router			/users [get]
func (h *User) List(w http.ResponseWriter, r *http.Request) {
	params := request.ParseListParams(r, "created_at")
	params.Status = r.URL.Query().Get("role")

	users, hasMore, err := h.svc.List(r.Context(), params, request.QueryBool(r, "active"))
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, params, users, hasMore)
}

// Create godoc
//
//	@Summary		Create a user
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			body body request.CreateUser true "User details"
//	@Success		201 {object} model.User
//	@Failure		409 {object} response.ErrorResponse
//	@Router			/users [post]
func (h *User) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUser
	if !decode(w, r, &req) {
		return
	}

	user, err := h.svc.Create(r.Context(), req.Name, req.Email, req.Password, req.Phone, req.Address, req.Role)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, user)
}

// Stats godoc
//
//	@Summary		User counts
//	@Tags			Users
//	@Security		BearerAuth
//	@Success		200 {object} model.UserStats
//	@Router			/users/stats [get]
func (h *User) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, st)
}

// Get godoc
//
//	@Summary		Get a user
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			id path string true "User ID"
//	@Success		200 {object} model.User
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/users/{id} [get]
func (h *User) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok || !ownerOrAdmin(w, r, id) {
		return
	}
	h.get(w, r, id)
}

// Update godoc
//
//	@Summary		Update a user's profile
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			id path string true "User ID"
//	@Param			body body request.UpdateUser true "Profile fields"
//	@Success		200 {object} model.User
//	@Router			/users/{id} [put]
func (h *User) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok || !ownerOrAdmin(w, r, id) {
		return
	}
	h.update(w, r, id)
}

// UpdateLocation godoc
//
//	@Summary		Set a user's location
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			id path string true "User ID"
//	@Param			body body request.UpdateUserLocation true "Location"
//	@Success		200 {object} model.User
//	@Router			/users/{id}/location [put]
func (h *User) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok || !ownerOrAdmin(w, r, id) {
		return
	}
	var req request.UpdateUserLocation
	if !decode(w, r, &req) {
		return
	}

	if err := h.svc.UpdateLocation(r.Context(), id, req.City, req.Country, req.Latitude, req.Longitude); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	h.get(w, r, id)
}

// UpdateLanguage godoc
//
//	@Summary		Set a user's language
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			id path string true "User ID"
//	@Param			body body request.UpdateUserLanguage true "Language"
//	@Success		200 {object} model.User
//	@Router			/users/{id}/language [put]
func (h *User) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok || !ownerOrAdmin(w, r, id) {
		return
	}
	var req request.UpdateUserLanguage
	if !decode(w, r, &req) {
		return
	}

	if err := h.svc.UpdateLanguage(r.Context(), id, req.Language); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	h.get(w, r, id)
}

// Delete godoc
//
//	@Summary		Deactivate a user
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			id path string true "User ID"
//	@Success		204
//	@Router			/users/{id} [delete]
func (h *User) Delete(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// Activate godoc
//
//	@Summary		Reactivate a user
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			id path string true "User ID"
//	@Success		204
//	@Router			/users/{id}/activate [post]
func (h *User) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// SetRole godoc
//
//	@Summary		Change a user's role
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			id path string true "User ID"
//	@Param			body body request.UpdateUserRole true "Role"
//	@Success		200 {object} model.User
//	@Router			/users/{id}/role [put]
func (h *User) SetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateUserRole
	if !decode(w, r, &req) {
		return
	}

	if err := h.svc.SetRole(r.Context(), id, req.Role); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	h.get(w, r, id)
}

func (h *User) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.SetActive(r.Context(), id, active); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *User) get(w http.ResponseWriter, r *http.Request, id string) {
	user, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, user)
}

func (h *User) update(w http.ResponseWriter, r *http.Request, id string) {
	var req request.UpdateUser
	if !decode(w, r, &req) {
		return
	}

	user, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}

	if err := h.svc.Update(r.Context(), user); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, user)
}
