package handler

import (
	"net/http"

	mw "github.com/tekashi/storefront/internal/api/middleware"
	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/core"
	"github.com/tekashi/storefront/internal/model"
)

type Order struct {
	svc *core.OrderService
}

func NewOrder(svc *core.OrderService) *Order {
	return &Order{svc: svc}
}

// Place godoc
//
//	@Summary		Place an order
//	@Description	Guests may order without a token. Resubmitting with the same Idempotency-Key returns the existing order with 200.
//	@Tags			Orders
//	@Param			Idempotency-Key header string false "Client-chosen idempotency key"
//	@Param			body body request.PlaceOrder true "Order"
//	@Success		201 {object} model.Order
//	@Success		200 {object} model.Order
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		409 {object} response.ErrorResponse
//	@Router			/orders [post]
func (h *Order) Place(w http.ResponseWriter, r *http.Request) {
	var req request.PlaceOrder
	if !decode(w, r, &req) {
		return
	}

	in := core.PlaceOrderInput{
		Shipping: model.ShippingAddress{
			Name:       req.Shipping.Name,
			Email:      req.Shipping.Email,
			Phone:      req.Shipping.Phone,
			Address:    req.Shipping.Address,
			City:       req.Shipping.City,
			PostalCode: req.Shipping.PostalCode,
			Country:    req.Shipping.Country,
			Latitude:   req.Shipping.Latitude,
			Longitude:  req.Shipping.Longitude,
		},
		PaymentMethod:  req.Payment.Method,
		CardNumber:     req.Payment.CardNumber,
		Holder:         req.Payment.Holder,
		TransactionID:  req.Payment.TransactionID,
		ShippingMethod: req.ShippingMethod,
		PointsUsed:     req.PointsUsed,
		Notes:          req.Notes,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	}
	for _, it := range req.Items {
		in.Lines = append(in.Lines, core.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if c := mw.GetClaims(r.Context()); c != nil {
		userID := c.Sub
		in.UserID = &userID
	}

	order, created, err := h.svc.PlaceOrder(r.Context(), in)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.WriteJSON(w, status, order)
}

// Mine godoc
//
//	@Summary		List the caller's orders
//	@Tags			Orders
//	@Security		BearerAuth
//	@Param			status query string false "Filter by status"
//	@Param			limit query int false "Page size" default(50)
//	@Param			cursor query string false "Pagination cursor"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.Order}
//	@Router			/orders/mine [get]
func (h *Order) Mine(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	params := request.ParseListParams(r, "placed_at")
	orders, hasMore, err := h.svc.ListMine(r.Context(), c.Sub, params)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, params, orders, hasMore)
}

// Lookup godoc
//
//	@Summary		Look up a guest order
//	@Tags			Orders
//	@Param			email query string true "Shipping email"
//	@Param			order_number query string true "Order number"
//	@Success		200 {object} model.Order
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/orders/lookup [get]
func (h *Order) Lookup(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	number := r.URL.Query().Get("order_number")
	if email == "" || number == "" {
		response.WriteError(w, http.StatusBadRequest, "email and order_number are required")
		return
	}

	order, err := h.svc.Lookup(r.Context(), email, number)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, order)
}

// Get godoc
//
//	@Summary		Get an order
//	@Tags			Orders
//	@Security		BearerAuth
//	@Param			id path string true "Order ID"
//	@Success		200 {object} model.Order
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/orders/{id} [get]
func (h *Order) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	owner := ""
	if order.UserID != nil {
		owner = *order.UserID
	}
	if !ownerOrAdmin(w, r, owner) {
		return
	}
	response.WriteJSON(w, http.StatusOK, order)
}

// Cancel godoc
//
//	@Summary		Cancel one of the caller's orders
//	@Description	Only pending or confirmed orders can be cancelled. Stock and points are restored.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Param			id path string true "Order ID"
//	@Success		200 {object} model.Order
//	@Failure		409 {object} response.ErrorResponse
//	@Router			/orders/{id}/cancel [post]
func (h *Order) Cancel(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.svc.Cancel(r.Context(), id, c.Sub)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, order)
}

// List godoc
//
//	@Summary		List all orders
//	@Tags			Orders
//	@Security		BearerAuth
//	@Param			status query string false "Filter by status"
//	@Param			search query string false "Search on order number or shipping email"
//	@Param			limit query int false "Page size" default(50)
//	@Param			cursor query string false "Pagination cursor"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.Order}
//	@Router			/orders [get]
func (h *Order) List(w http.ResponseWriter, r *http.Request) {
	params := request.ParseListParams(r, "placed_at")
	orders, hasMore, err := h.svc.ListAll(r.Context(), params)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, params, orders, hasMore)
}

// UpdateStatus godoc
//
//	@Summary		Move an order to another status
//	@Tags			Orders
//	@Security		BearerAuth
//	@Param			id path string true "Order ID"
//	@Param			body body request.UpdateOrderStatus true "New status"
//	@Success		200 {object} model.Order
//	@Failure		409 {object} response.ErrorResponse
//	@Router			/orders/{id}/status [put]
func (h *Order) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateOrderStatus
	if !decode(w, r, &req) {
		return
	}

	order, err := h.svc.UpdateStatus(r.Context(), id, req.Status, req.TrackingNumber)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, order)
}

// Stats godoc
//
//	@Summary		Order statistics
//	@Tags			Orders
//	@Security		BearerAuth
//	@Success		200 {object} model.OrderStats
//	@Router			/orders/stats [get]
func (h *Order) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, st)
}
