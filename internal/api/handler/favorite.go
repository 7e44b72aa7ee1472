package handler

import (
	"net/http"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/core"
)

type Favorite struct {
	svc *core.FavoriteService
}

func NewFavorite(svc *core.FavoriteService) *Favorite {
	return &Favorite{svc: svc}
}

// List godoc
//
//	@Summary		List the caller's favorites
//	@Tags			Favorites
//	@Security		BearerAuth
//	@Param			limit query int false "Page size" default(50)
//	@Param			cursor query string false "Pagination cursor"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.Favorite}
//	@Router			/favorites [get]
func (h *Favorite) List(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	params := request.ParseListParams(r, "created_at")
	favs, hasMore, err := h.svc.ListMine(r.Context(), c.Sub, params)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, params, favs, hasMore)
}

// Add godoc
//
//	@Summary		Add a product to the caller's favorites
//	@Tags			Favorites
//	@Security		BearerAuth
//	@Param			body body request.AddFavorite true "Favorite"
//	@Success		201 {object} model.Favorite
//	@Failure		409 {object} response.ErrorResponse
//	@Router			/favorites [post]
func (h *Favorite) Add(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req request.AddFavorite
	if !decode(w, r, &req) {
		return
	}

	in := core.FavoriteInput{
		Notes:       req.Notes,
		Priority:    req.Priority,
		NotifyOffer: true,
		NotifyStock: true,
	}
	if req.NotifyOffer != nil {
		in.NotifyOffer = *req.NotifyOffer
	}
	if req.NotifyStock != nil {
		in.NotifyStock = *req.NotifyStock
	}

	fav, err := h.svc.Add(r.Context(), c.Sub, req.ProductID, in)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, fav)
}

// Update godoc
//
//	@Summary		Update a favorite
//	@Tags			Favorites
//	@Security		BearerAuth
//	@Param			id path string true "Favorite ID"
//	@Param			body body request.UpdateFavorite true "Fields to change"
//	@Success		200 {object} model.Favorite
//	@Router			/favorites/{id} [put]
func (h *Favorite) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateFavorite
	if !decode(w, r, &req) {
		return
	}

	fav, err := h.svc.Update(r.Context(), c.Sub, id, core.FavoritePatch{
		Notes:       req.Notes,
		Priority:    req.Priority,
		NotifyOffer: req.NotifyOffer,
		NotifyStock: req.NotifyStock,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, fav)
}

// Remove godoc
//
//	@Summary		Remove a product from the caller's favorites
//	@Tags			Favorites
//	@Security		BearerAuth
//	@Param			productId path string true "Product ID"
//	@Success		204
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/favorites/{productId} [delete]
func (h *Favorite) Remove(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}
	if err := h.svc.Remove(r.Context(), c.Sub, productID); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Check godoc
//
//	@Summary		Check whether a product is a favorite
//	@Tags			Favorites
//	@Security		BearerAuth
//	@Param			productId path string true "Product ID"
//	@Success		200 {object} map[string]bool
//	@Router			/favorites/check/{productId} [get]
func (h *Favorite) Check(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}
	fav, err := h.svc.Check(r.Context(), c.Sub, productID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]bool{"is_favorite": fav})
}

// Offers godoc
//
//	@Summary		Favorites whose product is on offer
//	@Description	Only favorites with offer notifications enabled are included.
//	@Tags			Favorites
//	@Security		BearerAuth
//	@Success		200 {array} model.Favorite
//	@Router			/favorites/offers [get]
func (h *Favorite) Offers(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	favs, err := h.svc.OnOffer(r.Context(), c.Sub)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, favs)
}

// LowStock godoc
//
//	@Summary		Favorites whose product is running out
//	@Description	Only favorites with stock notifications enabled are included.
//	@Tags			Favorites
//	@Security		BearerAuth
//	@Param			limit query int false "Stock level to report at or below" default(5)
//	@Success		200 {array} model.Favorite
//	@Failure		400 {object} response.ErrorResponse
//	@Router			/favorites/low-stock [get]
func (h *Favorite) LowStock(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	limit := core.DefaultLowStockLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n := request.QueryInt(r, "limit")
		if n == nil || *n < 0 {
			response.WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = *n
	}
	favs, err := h.svc.LowStock(r.Context(), c.Sub, limit)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, favs)
}

// View godoc
//
//	@Summary		Record a view of a favorite
//	@Tags			Favorites
//	@Security		BearerAuth
//	@Param			id path string true "Favorite ID"
//	@Success		204
//	@Router			/favorites/{id}/view [post]
func (h *Favorite) View(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.RecordView(r.Context(), c.Sub, id); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats godoc
//
//	@Summary		Favorite statistics
//	@Tags			Favorites
//	@Security		BearerAuth
//	@Success		200 {object} model.FavoriteStats
//	@Router			/favorites/stats [get]
func (h *Favorite) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, st)
}
