package handler

import (
	"net/http"

	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/shop"
)

// PurchaseSeedRequest represents the request to buy one seed from the shop
type PurchaseSeedRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	SeedID   string `json:"seed_id" validate:"required"`
}

// ShopHandler handles shop-related HTTP requests
type ShopHandler struct {
	shopSvc shop.Service
}

// NewShopHandler creates a new shop handler
func NewShopHandler(shopSvc shop.Service) *ShopHandler {
	return &ShopHandler{
		shopSvc: shopSvc,
	}
}

// ListStock handles the shop listing endpoint
// @Summary List shop stock
// @Description Returns the current shop listing with per-seed stock counts and the next restock time
// @Tags shop
// @Produce json
// @Success 200 {object} DataResponse "Current shop stock"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /shop [get]
func (h *ShopHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	stock, err := h.shopSvc.ListStock(r.Context())
	if err != nil {
		respondServiceError(w, r, "List stock", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: stock})
}

// Purchase handles the seed purchase endpoint
// @Summary Purchase a seed
// @Description Buys one unit of a seed; stock decrement, balance debit and inventory credit settle atomically
// @Tags shop
// @Accept json
// @Produce json
// @Param request body PurchaseSeedRequest true "Purchase request"
// @Success 200 {object} domain.PurchaseResult "Purchase settled"
// @Failure 400 {object} ErrorResponse "Out of stock, not enough sheckles, or seed not obtainable"
// @Failure 404 {object} ErrorResponse "Player or seed not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /shop/purchase [post]
func (h *ShopHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req PurchaseSeedRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Purchase seed"); err != nil {
		return
	}

	log.Info("Purchase request received", "playerID", req.PlayerID, "seedID", req.SeedID)

	result, err := h.shopSvc.Purchase(r.Context(), req.PlayerID, req.SeedID)
	if err != nil {
		respondServiceError(w, r, "Purchase seed", err)
		return
	}

	log.Info("Purchase successful",
		"playerID", req.PlayerID,
		"seed", result.SeedName,
		"cost", result.Cost,
		"stockLeft", result.StockLeft)

	respondJSON(w, http.StatusOK, result)
}
