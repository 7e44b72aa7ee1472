package handler

import (
	"net/http"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/core"
	"github.com/tekashi/storefront/internal/model"
)

type Wishlist struct {
	svc *core.WishlistService
}

func NewWishlist(svc *core.WishlistService) *Wishlist {
	return &Wishlist{svc: svc}
}

func notifySettings(n *request.WishlistNotify) *model.WishlistNotify {
	if n == nil {
		return nil
	}
	return &model.WishlistNotify{Offers: n.Offers, Stock: n.Stock, NewProducts: n.NewProducts}
}

// List godoc
//
//	@Summary		List the caller's wishlists
//	@Tags			Wishlists
//	@Security		BearerAuth
//	@Param			limit query int false "Page size" default(50)
//	@Param			cursor query string false "Pagination cursor"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.Wishlist}
//	@Router			/wishlists [get]
func (h *Wishlist) List(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	params := request.ParseListParams(r, "created_at")
	lists, hasMore, err := h.svc.ListMine(r.Context(), c.Sub, params)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, params, lists, hasMore)
}

// Create godoc
//
//	@Summary		Create a wishlist
//	@Tags			Wishlists
//	@Security		BearerAuth
//	@Param			body body request.CreateWishlist true "Wishlist"
//	@Success		201 {object} model.Wishlist
//	@Router			/wishlists [post]
func (h *Wishlist) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req request.CreateWishlist
	if !decode(w, r, &req) {
		return
	}

	in := core.WishlistInput{
		Name:        req.Name,
		Description: req.Description,
		Public:      req.Public,
		Notify:      model.WishlistNotify{Offers: true, Stock: true},
	}
	if req.Share != nil {
		in.ExpiresAt = req.Share.ExpiresAt
		in.MaxUses = req.Share.MaxUses
	}
	if n := notifySettings(req.Notify); n != nil {
		in.Notify = *n
	}

	list, err := h.svc.Create(r.Context(), c.Sub, in)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, list)
}

// Get godoc
//
//	@Summary		Get one of the caller's wishlists
//	@Tags			Wishlists
//	@Security		BearerAuth
//	@Param			id path string true "Wishlist ID"
//	@Success		200 {object} model.Wishlist
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/wishlists/{id} [get]
func (h *Wishlist) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	list, err := h.svc.Get(r.Context(), c.Sub, id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, list)
}

// Update godoc
//
//	@Summary		Update a wishlist
//	@Tags			Wishlists
//	@Security		BearerAuth
//	@Param			id path string true "Wishlist ID"
//	@Param			body body request.UpdateWishlist true "Fields to change"
//	@Success		200 {object} model.Wishlist
//	@Router			/wishlists/{id} [put]
func (h *Wishlist) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateWishlist
	if !decode(w, r, &req) {
		return
	}

	patch := core.WishlistPatch{
		Name:        req.Name,
		Description: req.Description,
		Public:      req.Public,
		Notify:      notifySettings(req.Notify),
	}
	if req.Share != nil {
		patch.ExpiresAt = req.Share.ExpiresAt
		patch.MaxUses = &req.Share.MaxUses
	}

	list, err := h.svc.Update(r.Context(), c.Sub, id, patch)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, list)
}

// Delete godoc
//
//	@Summary		Delete a wishlist
//	@Tags			Wishlists
//	@Security		BearerAuth
//	@Param			id path string true "Wishlist ID"
//	@Success		204
//	@Router			/wishlists/{id} [delete]
func (h *Wishlist) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), c.Sub, id); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItem godoc
//
//	@Summary		Add a product to a wishlist
//	@Tags			Wishlists
//	@Security		BearerAuth
//	@Param			id path string true "Wishlist ID"
//	@Param			body body request.AddWishlistItem true "Item"
//	@Success		201 {object} model.WishlistItem
//	@Failure		409 {object} response.ErrorResponse
//	@Router			/wishlists/{id}/items [post]
func (h *Wishlist) AddItem(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.AddWishlistItem
	if !decode(w, r, &req) {
		return
	}

	item, err := h.svc.AddItem(r.Context(), c.Sub, id, model.WishlistItem{
		ProductID: req.ProductID,
		Notes:     req.Notes,
		Priority:  req.Priority,
		Quantity:  req.Quantity,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, item)
}

// UpdateItem godoc
//
//	@Summary		Update a wishlist item
//	@Tags			Wishlists
//	@Security		BearerAuth
//	@Param			id path string true "Wishlist ID"
//	@Param			productId path string true "Product ID"
//	@Param			body body request.UpdateWishlistItem true "Fields to change"
//	@Success		204
//	@Router			/wishlists/{id}/items/{productId} [put]
func (h *Wishlist) UpdateItem(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}
	var req request.UpdateWishlistItem
	if !decode(w, r, &req) {
		return
	}

	err := h.svc.UpdateItem(r.Context(), c.Sub, id, productID, core.WishlistItemPatch{
		Notes:    req.Notes,
		Priority: req.Priority,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveItem godoc
//
//	@Summary		Remove a product from a wishlist
//	@Tags			Wishlists
//	@Security		BearerAuth
//	@Param			id path string true "Wishlist ID"
//	@Param			productId path string true "Product ID"
//	@Success		204
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/wishlists/{id}/items/{productId} [delete]
func (h *Wishlist) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}
	if err := h.svc.RemoveItem(r.Context(), c.Sub, id, productID); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegenerateCode godoc
//
//	@Summary		Issue a new share code
//	@Tags			Wishlists
//	@Security		BearerAuth
//	@Param			id path string true "Wishlist ID"
//	@Success		200 {object} map[string]string
//	@Router			/wishlists/{id}/share/regenerate [post]
func (h *Wishlist) RegenerateCode(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	code, err := h.svc.RegenerateCode(r.Context(), c.Sub, id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"share_code": code})
}

// Value godoc
//
//	@Summary		Total value of a wishlist
//	@Tags			Wishlists
//	@Security		BearerAuth
//	@Param			id path string true "Wishlist ID"
//	@Success		200 {object} map[string]float64
//	@Router			/wishlists/{id}/value [get]
func (h *Wishlist) Value(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	total, err := h.svc.TotalValue(r.Context(), c.Sub, id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]float64{"total_value": total})
}

// Offers godoc
//
//	@Summary		Wishlist items currently on offer
//	@Tags			Wishlists
//	@Security		BearerAuth
//	@Param			id path string true "Wishlist ID"
//	@Success		200 {array} model.WishlistItem
//	@Router			/wishlists/{id}/offers [get]
func (h *Wishlist) Offers(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.svc.OnOfferItems(r.Context(), c.Sub, id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if items == nil {
		items = []model.WishlistItem{}
	}
	response.WriteJSON(w, http.StatusOK, items)
}

// Shared godoc
//
//	@Summary		Open a shared wishlist
//	@Tags			Wishlists
//	@Param			code path string true "Share code"
//	@Success		200 {object} model.Wishlist
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/wishlists/shared/{code} [get]
func (h *Wishlist) Shared(w http.ResponseWriter, r *http.Request) {
	code, ok := pathID(w, r, "code")
	if !ok {
		return
	}
	list, err := h.svc.GetShared(r.Context(), code)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, list)
}
