package handler

import (
	"net/http"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/core"
	"github.com/tekashi/storefront/internal/model"
)

type ProductType struct {
	svc      *core.ProductTypeService
	products *core.ProductService
}

func NewProductType(svc *core.ProductTypeService, products *core.ProductService) *ProductType {
	return &ProductType{svc: svc, products: products}
}

// List godoc
//
//	@Summary		List all product types
//	@Tags			Product Types
//	@Success		200 {array} model.ProductType
//	@Router			/product-types [get]
func (h *ProductType) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// Active godoc
//
//	@Summary		List active product types
//	@Tags			Product Types
//	@Success		200 {array} model.ProductType
//	@Router			/product-types/active [get]
func (h *ProductType) Active(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *ProductType) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	types, err := h.svc.List(r.Context(), activeOnly)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, types)
}

// Get godoc
//
//	@Summary		Get a product type
//	@Tags			Product Types
//	@Param			id path string true "Product type ID"
//	@Success		200 {object} model.ProductType
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/product-types/{id} [get]
func (h *ProductType) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	pt, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, pt)
}

// BySlug godoc
//
//	@Summary		Get an active product type by slug
//	@Tags			Product Types
//	@Param			slug path string true "Slug"
//	@Success		200 {object} model.ProductType
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/product-types/slug/{slug} [get]
func (h *ProductType) BySlug(w http.ResponseWriter, r *http.Request) {
	slug, ok := pathID(w, r, "slug")
	if !ok {
		return
	}
	if !request.ValidSlug(slug) {
		response.WriteError(w, http.StatusBadRequest, "invalid slug")
		return
	}
	pt, err := h.svc.GetBySlug(r.Context(), slug)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, pt)
}

// Products godoc
//
//	@Summary		List active products of a type
//	@Tags			Product Types
//	@Param			id path string true "Product type ID"
//	@Param			limit query int false "Page size" default(50)
//	@Param			cursor query string false "Pagination cursor"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.ProductView}
//	@Router			/product-types/{id}/products [get]
func (h *ProductType) Products(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	params := request.ParseListParams(r, "created_at")
	products, hasMore, err := h.products.List(r.Context(), core.ProductFilter{ProductTypeID: id}, params)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, params, productViews(products), hasMore)
}

// Create godoc
//
//	@Summary		Create a product type
//	@Tags			Product Types
//	@Security		BearerAuth
//	@Param			body body request.CreateProductType true "Product type"
//	@Success		201 {object} model.ProductType
//	@Failure		409 {object} response.ErrorResponse
//	@Router			/product-types [post]
func (h *ProductType) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateProductType
	if !decode(w, r, &req) {
		return
	}

	pt := &model.ProductType{
		Name:            req.Name,
		Description:     req.Description,
		Active:          true,
		SortOrder:       req.SortOrder,
		MetaDescription: req.MetaDescription,
		Keywords:        req.Keywords,
	}
	if err := h.svc.Create(r.Context(), pt); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, pt)
}

// Update godoc
//
//	@Summary		Update a product type
//	@Tags			Product Types
//	@Security		BearerAuth
//	@Param			id path string true "Product type ID"
//	@Param			body body request.UpdateProductType true "Fields to change"
//	@Success		200 {object} model.ProductType
//	@Router			/product-types/{id} [put]
func (h *ProductType) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateProductType
	if !decode(w, r, &req) {
		return
	}

	pt, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if req.Name != nil {
		pt.Name = *req.Name
	}
	if req.Description != nil {
		pt.Description = *req.Description
	}
	if req.Active != nil {
		pt.Active = *req.Active
	}
	if req.MetaDescription != nil {
		pt.MetaDescription = *req.MetaDescription
	}
	if req.Keywords != nil {
		pt.Keywords = req.Keywords
	}

	if err := h.svc.Update(r.Context(), pt); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, pt)
}

// Delete godoc
//
//	@Summary		Delete a product type
//	@Description	Rejected while active products still reference the type.
//	@Tags			Product Types
//	@Security		BearerAuth
//	@Param			id path string true "Product type ID"
//	@Success		204
//	@Failure		409 {object} response.ErrorResponse
//	@Router			/product-types/{id} [delete]
func (h *ProductType) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Activate godoc
//
//	@Summary		Activate a product type
//	@Tags			Product Types
//	@Security		BearerAuth
//	@Param			id path string true "Product type ID"
//	@Success		204
//	@Router			/product-types/{id}/activate [post]
func (h *ProductType) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.SetActive(r.Context(), id, true); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetOrder godoc
//
//	@Summary		Set the display order of a product type
//	@Tags			Product Types
//	@Security		BearerAuth
//	@Param			id path string true "Product type ID"
//	@Param			body body request.SetSortOrder true "Sort order"
//	@Success		204
//	@Router			/product-types/{id}/order [put]
func (h *ProductType) SetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.SetSortOrder
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.SetSortOrder(r.Context(), id, *req.SortOrder); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Recount godoc
//
//	@Summary		Recompute the active product count of a type
//	@Tags			Product Types
//	@Security		BearerAuth
//	@Param			id path string true "Product type ID"
//	@Success		200 {object} map[string]int
//	@Router			/product-types/{id}/recount [post]
func (h *ProductType) Recount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	n, err := h.svc.Recount(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]int{"product_count": n})
}
