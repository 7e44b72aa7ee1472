package handler

import (
	"net/http"
	"time"

	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/core"
	"github.com/tekashi/storefront/internal/model"
)

type Dashboard struct {
	svc *core.DashboardService
}

func NewDashboard(svc *core.DashboardService) *Dashboard {
	return &Dashboard{svc: svc}
}

// Stats godoc
//
//	@Summary		Get the caller's dashboard statistics
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Success		200	{object}	core.UserDashboard
//	@Failure		500	{object}	response.ErrorResponse
//	@Router			/dashboard/stats [get]
func (h *Dashboard) Stats(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.UserStats(r.Context(), c.Sub)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, stats)
}

// Purchases godoc
//
//	@Summary		Recent orders of the caller
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Success		200	{array}		model.Order
//	@Router			/dashboard/purchases [get]
func (h *Dashboard) Purchases(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	orders, err := h.svc.Purchases(r.Context(), c.Sub)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	response.WriteJSON(w, http.StatusOK, orders)
}

// Recommendations godoc
//
//	@Summary		Products recommended from the caller's favorites
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Success		200	{array}		model.ProductView
//	@Router			/dashboard/recommendations [get]
func (h *Dashboard) Recommendations(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	products, err := h.svc.Recommendations(r.Context(), c.Sub)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	views := make([]model.ProductView, len(products))
	now := time.Now()
	for i, p := range products {
		views[i] = model.NewProductView(p, now)
	}
	response.WriteJSON(w, http.StatusOK, views)
}
