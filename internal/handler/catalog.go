package handler

import (
	"net/http"

	"github.com/growallgarden/server/internal/catalog"
)

// CatalogHandler handles seed and mutation catalog HTTP requests
type CatalogHandler struct {
	catalogSvc catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogSvc catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		catalogSvc: catalogSvc,
	}
}

// ListSeeds handles the seed catalog endpoint
// @Summary List the seed catalog
// @Description Returns every seed definition, cheapest first
// @Tags catalog
// @Produce json
// @Success 200 {object} DataResponse "Seed definitions"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /seeds [get]
func (h *CatalogHandler) ListSeeds(w http.ResponseWriter, r *http.Request) {
	seeds, err := h.catalogSvc.ListSeeds(r.Context())
	if err != nil {
		respondServiceError(w, r, "List seeds", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: seeds})
}

// ListMutations handles the mutation catalog endpoint
// @Summary List the mutation catalog
// @Description Returns every known mutation with its price multiplier
// @Tags catalog
// @Produce json
// @Success 200 {object} DataResponse "Mutation definitions"
// @Router /mutations [get]
func (h *CatalogHandler) ListMutations(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, DataResponse{Data: h.catalogSvc.ListMutations()})
}
