package handler

import (
	"net/http"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/core"
	"github.com/tekashi/storefront/internal/model"
)

type Auth struct {
	svc *core.AuthService
}

func NewAuth(svc *core.AuthService) *Auth {
	return &Auth{svc: svc}
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register godoc
//
//	@Summary		Register a customer account
//	@Tags			Auth
//	@Param			body body request.Register true "Account details"
//	@Success		201 {object} authResponse
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		409 {object} response.ErrorResponse
//	@Router			/auth/register [post]
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req request.Register
	if !decode(w, r, &req) {
		return
	}

	token, user, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// Login godoc
//
//	@Summary		Authenticate with email and password
//	@Tags			Auth
//	@Param			body body request.Login true "Credentials"
//	@Success		200 {object} authResponse
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Router			/auth/login [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req request.Login
	if !decode(w, r, &req) {
		return
	}

	token, user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}
