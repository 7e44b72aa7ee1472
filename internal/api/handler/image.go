package handler

import (
	"net/http"

	mw "github.com/tekashi/storefront/internal/api/middleware"
	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/core"
	"github.com/tekashi/storefront/internal/model"
)

type Image struct {
	svc *core.ImageService
}

func NewImage(svc *core.ImageService) *Image {
	return &Image{svc: svc}
}

// List godoc
//
//	@Summary		List images
//	@Tags			Images
//	@Param			limit query int false "Page size" default(50)
//	@Param			cursor query string false "Pagination cursor"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.Image}
//	@Router			/images [get]
func (h *Image) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, core.ImageFilter{})
}

// ByType godoc
//
//	@Summary		List images of a product type
//	@Tags			Images
//	@Param			typeId path string true "Product type ID"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.Image}
//	@Router			/images/type/{typeId} [get]
func (h *Image) ByType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "typeId")
	if !ok {
		return
	}
	h.list(w, r, core.ImageFilter{ProductTypeID: id})
}

// ByProduct godoc
//
//	@Summary		List images of a product
//	@Tags			Images
//	@Param			productId path string true "Product ID"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.Image}
//	@Router			/images/product/{productId} [get]
func (h *Image) ByProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "productId")
	if !ok {
		return
	}
	h.list(w, r, core.ImageFilter{ProductID: id})
}

func (h *Image) list(w http.ResponseWriter, r *http.Request, imf core.ImageFilter) {
	imf.ActiveOnly = !mw.IsAdmin(r.Context())
	params := request.ParseListParams(r, "sort_order")
	if r.URL.Query().Get("order") == "" {
		params.Order = "asc"
	}

	images, hasMore, err := h.svc.List(r.Context(), imf, params)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, params, images, hasMore)
}

// Get godoc
//
//	@Summary		Get an image
//	@Tags			Images
//	@Param			id path string true "Image ID"
//	@Success		200 {object} model.Image
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/images/{id} [get]
func (h *Image) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	img, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, img)
}

// URLs godoc
//
//	@Summary		Resolve the URLs of an image
//	@Tags			Images
//	@Param			id path string true "Image ID"
//	@Success		200 {object} model.ImageURLs
//	@Router			/images/{id}/urls [get]
func (h *Image) URLs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	img, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	urls, err := h.svc.URLs(r.Context(), img)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, urls)
}

// Create godoc
//
//	@Summary		Register an image
//	@Tags			Images
//	@Security		BearerAuth
//	@Param			body body request.CreateImage true "Image"
//	@Success		201 {object} model.Image
//	@Failure		400 {object} response.ErrorResponse
//	@Router			/images [post]
func (h *Image) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateImage
	if !decode(w, r, &req) {
		return
	}

	img := &model.Image{
		URL:           req.URL,
		Name:          req.Name,
		Description:   req.Description,
		ProductTypeID: req.ProductTypeID,
		ProductID:     req.ProductID,
		Kind:          req.Kind,
		SortOrder:     req.SortOrder,
		SizeBytes:     req.SizeBytes,
		Width:         req.Width,
		Height:        req.Height,
		Format:        req.Format,
		Quality:       req.Quality,
		Provider:      req.Provider,
		ExternalID:    req.ExternalID,
		Alt:           req.Alt,
		Title:         req.Title,
	}
	if err := h.svc.Create(r.Context(), img); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, img)
}

// Update godoc
//
//	@Summary		Update an image
//	@Tags			Images
//	@Security		BearerAuth
//	@Param			id path string true "Image ID"
//	@Param			body body request.UpdateImage true "Fields to change"
//	@Success		200 {object} model.Image
//	@Router			/images/{id} [put]
func (h *Image) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateImage
	if !decode(w, r, &req) {
		return
	}

	img, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if req.Name != nil {
		img.Name = *req.Name
	}
	if req.Description != nil {
		img.Description = *req.Description
	}
	if req.ProductID != nil {
		img.ProductID = req.ProductID
	}
	if req.Kind != nil {
		img.Kind = *req.Kind
	}
	if req.Active != nil {
		img.Active = *req.Active
	}
	if req.Alt != nil {
		img.Alt = *req.Alt
	}
	if req.Title != nil {
		img.Title = *req.Title
	}

	if err := h.svc.Update(r.Context(), img); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, img)
}

// Delete godoc
//
//	@Summary		Delete an image
//	@Description	S3 images also lose their stored object.
//	@Tags			Images
//	@Security		BearerAuth
//	@Param			id path string true "Image ID"
//	@Success		204
//	@Router			/images/{id} [delete]
func (h *Image) Delete(w http.ResponseWriter, r *http.Request) {
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

// Main godoc
//
//	@Summary		Make an image the main image
//	@Tags			Images
//	@Security		BearerAuth
//	@Param			id path string true "Image ID"
//	@Success		200 {object} model.Image
//	@Router			/images/{id}/main [post]
func (h *Image) Main(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	img, err := h.svc.MarkMain(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, img)
}

// Order godoc
//
//	@Summary		Set the display order of an image
//	@Tags			Images
//	@Security		BearerAuth
//	@Param			id path string true "Image ID"
//	@Param			body body request.SetSortOrder true "Sort order"
//	@Success		204
//	@Router			/images/{id}/order [put]
func (h *Image) Order(w http.ResponseWriter, r *http.Request) {
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

// Optimize godoc
//
//	@Summary		Derive optimized and thumbnail URLs
//	@Tags			Images
//	@Security		BearerAuth
//	@Param			id path string true "Image ID"
//	@Success		200 {object} model.Image
//	@Router			/images/{id}/optimize [post]
func (h *Image) Optimize(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	img, err := h.svc.Optimize(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, img)
}
