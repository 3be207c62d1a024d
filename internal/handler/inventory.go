package handler

import (
	"net/http"

	"github.com/growallgarden/server/internal/inventory"
)

// InventoryHandler handles inventory-related HTTP requests
type InventoryHandler struct {
	inventorySvc inventory.Service
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventorySvc inventory.Service) *InventoryHandler {
	return &InventoryHandler{
		inventorySvc: inventorySvc,
	}
}

// GetInventory handles the inventory listing endpoint
// @Summary Get a player's inventory
// @Description Lists the player's held seeds joined with their catalog definitions
// @Tags inventory
// @Produce json
// @Param player_id query string true "Player ID"
// @Success 200 {object} DataResponse "Inventory entries"
// @Failure 400 {object} ErrorResponse "Missing player_id"
// @Failure 404 {object} ErrorResponse "Player not found"
// @Router /inventory [get]
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	playerID, ok := GetQueryParam(r, w, "player_id")
	if !ok {
		return
	}

	entries, err := h.inventorySvc.GetInventory(r.Context(), playerID)
	if err != nil {
		respondServiceError(w, r, "Get inventory", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: entries})
}
