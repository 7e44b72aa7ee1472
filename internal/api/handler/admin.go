package handler

import (
	"io"
	"net/http"

	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/core"
)

// maxCatalogSize bounds catalog import bodies.
const maxCatalogSize = 10 << 20

type Admin struct {
	dashboard *core.DashboardService
	catalog   *core.CatalogService
}

func NewAdmin(dashboard *core.DashboardService, catalog *core.CatalogService) *Admin {
	return &Admin{dashboard: dashboard, catalog: catalog}
}

// Dashboard godoc
//
//	@Summary		Store-wide counts
//	@Tags			Admin
//	@Security		BearerAuth
//	@Success		200	{object}	core.AdminDashboard
//	@Router			/admin/dashboard [get]
func (h *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.AdminStats(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, stats)
}

// Import godoc
//
//	@Summary		Import product types and products
//	@Description	Accepts YAML or JSON by Content-Type. Entries are upserted by slug; failures are reported per entry.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			application/yaml,application/json
//	@Success		200	{object}	core.ImportReport
//	@Failure		400	{object}	response.ErrorResponse
//	@Router			/admin/catalog/import [post]
func (h *Admin) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxCatalogSize))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	cat, err := core.ParseCatalog(data, r.Header.Get("Content-Type"))
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	report, err := h.catalog.Import(r.Context(), cat)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, report)
}

// Export godoc
//
//	@Summary		Export the active catalog as YAML
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		application/yaml
//	@Success		200	{string}	string
//	@Router			/admin/catalog/export [get]
func (h *Admin) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.catalog.Export(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.yaml"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
