package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	mw "github.com/tekashi/storefront/internal/api/middleware"
	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/core"
	"github.com/tekashi/storefront/internal/model"
)

type Product struct {
	svc *core.ProductService
}

func NewProduct(svc *core.ProductService) *Product {
	return &Product{svc: svc}
}

func productViews(products []model.Product) []model.ProductView {
	now := time.Now()
	views := make([]model.ProductView, len(products))
	for i, p := range products {
		views[i] = model.NewProductView(p, now)
	}
	return views
}

// List godoc
//
//	@Summary		List products
//	@Tags			Products
//	@Param			type query string false "Product type ID"
//	@Param			brand query string false "Brand"
//	@Param			gender query string false "Gender" Enums(men, women, unisex, kids)
//	@Param			featured query bool false "Featured only"
//	@Param			min_price query number false "Minimum price"
//	@Param			max_price query number false "Maximum price"
//	@Param			in_stock query bool false "Only products with stock"
//	@Param			search query string false "Search on name, brand, model or description"
//	@Param			sort query string false "Sort field" Enums(created_at, name, price, views, sales, rating_avg)
//	@Param			order query string false "Sort order" Enums(asc, desc)
//	@Param			limit query int false "Page size" default(50)
//	@Param			cursor query string false "Pagination cursor"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.ProductView}
//	@Router			/products [get]
func (h *Product) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pf := core.ProductFilter{
		ProductTypeID: q.Get("type"),
		Brand:         q.Get("brand"),
		Gender:        q.Get("gender"),
		Featured:      request.QueryBool(r, "featured"),
		MinPrice:      request.QueryFloat(r, "min_price"),
		MaxPrice:      request.QueryFloat(r, "max_price"),
	}
	if inStock := request.QueryBool(r, "in_stock"); inStock != nil {
		pf.InStock = *inStock
	}
	h.list(w, r, pf, request.ParseListParams(r, "created_at"))
}

// Featured godoc
//
//	@Summary		List featured products
//	@Tags			Products
//	@Success		200 {object} response.PaginatedResponse{items=[]model.ProductView}
//	@Router			/products/featured [get]
func (h *Product) Featured(w http.ResponseWriter, r *http.Request) {
	featured := true
	h.list(w, r, core.ProductFilter{Featured: &featured}, request.ParseListParams(r, "created_at"))
}

// Offers godoc
//
//	@Summary		List products currently on offer
//	@Tags			Products
//	@Success		200 {object} response.PaginatedResponse{items=[]model.ProductView}
//	@Router			/products/offers [get]
func (h *Product) Offers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, core.ProductFilter{OnOffer: true}, request.ParseListParams(r, "created_at"))
}

// Search godoc
//
//	@Summary		Search products
//	@Tags			Products
//	@Param			q query string true "Search text"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.ProductView}
//	@Failure		400 {object} response.ErrorResponse
//	@Router			/products/search [get]
func (h *Product) Search(w http.ResponseWriter, r *http.Request) {
	params := request.ParseListParams(r, "sales")
	params.Search = r.URL.Query().Get("q")
	if params.Search == "" {
		response.WriteError(w, http.StatusBadRequest, "missing search query")
		return
	}
	h.list(w, r, core.ProductFilter{}, params)
}

func (h *Product) list(w http.ResponseWriter, r *http.Request, pf core.ProductFilter, params request.ListParams) {
	products, hasMore, err := h.svc.List(r.Context(), pf, params)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, params, productViews(products), hasMore)
}

// Get godoc
//
//	@Summary		Get a product
//	@Description	Authenticated requests count as a product view.
//	@Tags			Products
//	@Param			id path string true "Product ID"
//	@Success		200 {object} model.ProductView
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/products/{id} [get]
func (h *Product) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if !p.Active && !mw.IsAdmin(r.Context()) {
		response.WriteError(w, http.StatusNotFound, "not found")
		return
	}

	if mw.GetClaims(r.Context()) != nil {
		if err := h.svc.RecordView(r.Context(), id); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Str("product_id", id).Msg("failed to record product view")
		} else {
			p.Views++
		}
	}
	response.WriteJSON(w, http.StatusOK, model.NewProductView(*p, time.Now()))
}

// Create godoc
//
//	@Summary		Create a product
//	@Tags			Products
//	@Security		BearerAuth
//	@Param			body body request.CreateProduct true "Product"
//	@Success		201 {object} model.ProductView
//	@Failure		400 {object} response.ErrorResponse
//	@Router			/products [post]
func (h *Product) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateProduct
	if !decode(w, r, &req) {
		return
	}

	p := &model.Product{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Stock:           req.Stock,
		ProductTypeID:   req.ProductTypeID,
		Brand:           req.Brand,
		Model:           req.Model,
		Sizes:           req.Sizes,
		Colors:          req.Colors,
		Material:        req.Material,
		Gender:          req.Gender,
		AgeGroup:        req.AgeGroup,
		Season:          req.Season,
		Active:          true,
		Featured:        req.Featured,
		MetaDescription: req.MetaDescription,
		Keywords:        req.Keywords,
	}
	if err := h.svc.Create(r.Context(), p); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, model.NewProductView(*p, time.Now()))
}

// Update godoc
//
//	@Summary		Update a product
//	@Tags			Products
//	@Security		BearerAuth
//	@Param			id path string true "Product ID"
//	@Param			body body request.UpdateProduct true "Fields to change"
//	@Success		200 {object} model.ProductView
//	@Router			/products/{id} [put]
func (h *Product) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateProduct
	if !decode(w, r, &req) {
		return
	}

	p, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	applyProductUpdate(p, req)

	if err := h.svc.Update(r.Context(), p); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, model.NewProductView(*p, time.Now()))
}

func applyProductUpdate(p *model.Product, req request.UpdateProduct) {
	setIf := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setIf(&p.Name, req.Name)
	setIf(&p.Description, req.Description)
	setIf(&p.ProductTypeID, req.ProductTypeID)
	setIf(&p.Brand, req.Brand)
	setIf(&p.Model, req.Model)
	setIf(&p.Material, req.Material)
	setIf(&p.Gender, req.Gender)
	setIf(&p.AgeGroup, req.AgeGroup)
	setIf(&p.Season, req.Season)
	setIf(&p.MetaDescription, req.MetaDescription)
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if req.Sizes != nil {
		p.Sizes = req.Sizes
	}
	if req.Colors != nil {
		p.Colors = req.Colors
	}
	if req.Keywords != nil {
		p.Keywords = req.Keywords
	}
}

// Delete godoc
//
//	@Summary		Deactivate a product
//	@Tags			Products
//	@Security		BearerAuth
//	@Param			id path string true "Product ID"
//	@Success		204
//	@Router			/products/{id} [delete]
func (h *Product) Delete(w http.ResponseWriter, r *http.Request) {
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

// SetFeatured godoc
//
//	@Summary		Feature or unfeature a product
//	@Tags			Products
//	@Security		BearerAuth
//	@Param			id path string true "Product ID"
//	@Param			body body request.SetFeatured true "Featured flag"
//	@Success		204
//	@Router			/products/{id}/featured [put]
func (h *Product) SetFeatured(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.SetFeatured
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.SetFeatured(r.Context(), id, *req.Featured); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetOffer godoc
//
//	@Summary		Replace the offer of a product
//	@Tags			Products
//	@Security		BearerAuth
//	@Param			id path string true "Product ID"
//	@Param			body body request.SetOffer true "Offer"
//	@Success		200 {object} model.ProductView
//	@Router			/products/{id}/offer [put]
func (h *Product) SetOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.SetOffer
	if !decode(w, r, &req) {
		return
	}

	p, err := h.svc.SetOffer(r.Context(), id, model.Offer{
		Active:     req.Active,
		Discount:   req.Discount,
		OfferPrice: req.OfferPrice,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, model.NewProductView(*p, time.Now()))
}

// SetStock godoc
//
//	@Summary		Set the stock level of a product
//	@Tags			Products
//	@Security		BearerAuth
//	@Param			id path string true "Product ID"
//	@Param			body body request.SetStock true "Absolute stock"
//	@Success		204
//	@Router			/products/{id}/stock [put]
func (h *Product) SetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.SetStock
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.SetStock(r.Context(), id, *req.Stock); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
